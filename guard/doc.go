// Package guard turns authgate state into route decisions for view routers.
//
// # Decisions
//
//   - [Protected] — guards content that requires an authenticated, role-granted user.
//   - [AuthView] — guards the sign-in/sign-up surface itself.
//   - [Evaluate] — dispatches on a [View] class.
//
// Every helper is a pure function over observable authgate state; callers
// re-evaluate whenever the session store or the role gate reports a change.
//
// # Architecture boundaries
//
// This package translates authgate state into render/redirect/pending
// answers. It does NOT perform role checks itself — all authority decisions
// are delegated to authgate.RoleGate.
//
// # What this package must NOT do
//
//   - Call the identity service (the role gate owns authority traffic).
//   - Cache decisions (state transitions must re-evaluate).
//   - Render denied content while a verdict is still unknown.
package guard
