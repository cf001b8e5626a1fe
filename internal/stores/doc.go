// Package stores provides Redis-backed record stores for the development
// identity stub: accounts, refresh sessions, recovery tokens, and role
// grants.
//
// # Design
//
// Account records are versioned, binary-encoded values keyed by normalized
// email with a secondary id index. Token records are single-use string
// mappings with a TTL, consumed atomically with GETDEL. Role grants live in
// a Redis set per user.
//
// # Architecture boundaries
//
// This package owns persistence only. It does NOT hash passwords, mint
// tokens, or make authentication decisions; those belong to the stub server
// in internal/idstub.
//
// # What this package must NOT do
//
//   - Import authgate or any sibling internal package.
//   - Log or expose password hashes.
//   - Interpret token strings (they are opaque keys here).
package stores
