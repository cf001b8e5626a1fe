// Package session provides the client-side session store: the single source of
// truth for "who is signed in right now" within one process.
//
// # Design
//
// The [Store] holds an immutable [Session] snapshot that is replaced wholesale
// on every identity-service notification. Subscribers registered through
// [Store.Subscribe] receive an immediate replay of the current state followed
// by every later transition in FIFO order until they unsubscribe. Delivery is
// serialized: no subscriber ever observes transitions out of order relative to
// the notification sequence.
//
// # Architecture boundaries
//
// This package owns in-memory session state and subscriber fan-out. It does
// NOT talk to the identity service, parse tokens, or decide authorization —
// those responsibilities belong to the Controller and the RoleGate.
//
// # What this package must NOT do
//
//   - Import authgate or any sibling package (no upward imports).
//   - Persist tokens; durable persistence belongs to the identity client.
//   - Invoke a subscriber handler from two goroutines at once.
package session
