// Package authgate provides a client-side authentication and authorization
// state machine for browser-style front ends that authenticate against a
// remote identity service.
//
// The package drives session acquisition and refresh, password-recovery token
// handling (including the dual-flow where recovery tokens arrive via URL
// fragment or query string), and server-verified role gating. It renders
// nothing: presentation layers consume the session store, the controller's
// mode, and role verdicts, and decide what to display.
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Controller], [Builder],
// [Config], [RoleGate], and value types (TokenPair, MetricsSnapshot,
// AuditEvent, etc.). Session fan-out lives in the session subpackage,
// navigation parsing in location, and the HTTP identity client in idhttp.
// The identity service itself is an external collaborator reached through the
// [IdentityClient] capability set; authgate never implements it (the
// internal/idstub development server exists only for tests and local runs).
//
// # What this package must NOT do
//
//   - Trust client-held role claims: every authorization verdict comes from
//     a live identity-service check and is discarded when the session
//     identity changes.
//   - Retry identity-service calls automatically; the user re-submits.
//   - Perform I/O outside of Controller, RoleGate, and identity-client
//     methods (construction via Builder is allocation-only until Build).
package authgate
