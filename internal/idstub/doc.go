// Package idstub is a self-contained identity service for development and
// integration testing. It speaks the same HTTP surface the idhttp client
// consumes: signup, password grant, recovery, user update, logout, and role
// checks.
//
// # Design
//
// Accounts, tokens, and role grants persist through the internal/stores
// Redis stores. Passwords hash with argon2id in PHC string format. Access
// tokens are HS256 JWTs carrying sub, email, and exp; refresh and recovery
// tokens are opaque UUIDs. Recovery mails are delivered through a hook so
// tests can capture the link instead of sending anything.
//
// # What this package must NOT do
//
//   - Serve production traffic (key handling and rate limiting are absent).
//   - Import authgate (the stub must stay consumable by its tests).
package idstub
