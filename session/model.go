package session

import "time"

// Session defines a public type used by authgate APIs.
//
// Session instances are immutable snapshots: the store replaces the whole
// value on every identity-service notification and never mutates fields in
// place.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string

	// ExpiresAt is the access token expiry as a Unix timestamp. Zero means
	// the identity service did not report one.
	ExpiresAt int64
}

// Expired reports whether the session's access token expiry has passed at the
// given instant. Sessions without a reported expiry never count as expired.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}
