// Package idhttp implements authgate.IdentityClient over a GoTrue-style
// HTTP identity service.
//
// # Endpoints
//
//   - POST /signup — create an account, verification mail carries redirect_to.
//   - POST /token?grant_type=password — password grant, returns a token pair.
//   - POST /recover — send a recovery mail, link carries redirect_to.
//   - PUT /user — update the authenticated user's password.
//   - POST /logout — revoke the current session server-side.
//   - POST /rpc/has_role — role membership check for the role gate.
//
// # Design
//
// The client holds the current token pair and fans session transitions out to
// OnAuthStateChange handlers; the access token's claims are decoded locally
// (without signature verification, the server is the verifier) to populate
// session identity fields. Service rejections map onto authgate sentinel
// errors so Classify works unchanged across identity-client implementations.
//
// # What this package must NOT do
//
//   - Verify token signatures (the identity service owns key material).
//   - Retry failed calls (callers decide retry policy).
//   - Persist tokens (storage is the embedding application's concern).
package idhttp
