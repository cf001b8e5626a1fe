// Package location classifies browser-style navigations for the password
// recovery flow and extracts recovery token material from them.
//
// # Design
//
// Two deliberately independent predicates exist side by side:
//
//   - [HasRecoveryMarker] scans the fragment for a type=recovery marker and
//     says "this navigation came from a recovery link".
//   - [Tokens] extracts an access/refresh token pair from the fragment or
//     query and says "this navigation carries usable tokens".
//
// A navigation can satisfy either predicate without the other. The two are
// NOT unified here; each consuming flow composes them explicitly.
//
// # What this package must NOT do
//
//   - Mutate navigation history as a side effect of reading.
//   - Import authgate or any sibling package.
//   - Persist extracted tokens.
package location
