package location

import (
	"net/url"
	"strings"
)

// TokenPair holds recovery token material extracted from a navigation. It is
// consumed at most once to establish a temporary session for password
// confirmation and never persisted.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Tokens extracts a recovery token pair from a raw location string. The raw
// value may be a full URL, a fragment ("#k=v&..."), or a query ("?k=v&...").
// The fragment is preferred when both carry parameters, matching the
// identity service's recovery-link format. The pair is returned only when
// both access_token and refresh_token are present and non-empty; unrelated
// keys are ignored.
func Tokens(raw string) (TokenPair, bool) {
	values := paramValues(raw)
	if values == nil {
		return TokenPair{}, false
	}

	pair := TokenPair{
		AccessToken:  values.Get("access_token"),
		RefreshToken: values.Get("refresh_token"),
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return TokenPair{}, false
	}

	return pair, true
}

// HasRecoveryMarker reports whether the fragment of raw carries a
// type=recovery marker. The check is fragment-specific and independent of
// token presence: a recovery-flagged navigation may lack usable tokens and
// a token-bearing navigation may lack the marker.
func HasRecoveryMarker(raw string) bool {
	fragment := fragmentOf(raw)
	if fragment == "" {
		return false
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		// Malformed fragments fall back to a substring scan so a recovery
		// link mangled by a mail client still enters recovery mode.
		return strings.Contains(fragment, "type=recovery")
	}

	return values.Get("type") == "recovery"
}

// StripRecoveryParams returns the location with token material and the
// recovery marker removed: the fragment is dropped entirely and the
// access_token, refresh_token, and type query parameters are deleted.
// Ordinary path and query components survive. Used for the replace-in-place
// history rewrite after a successful recovery confirmation; it performs no
// navigation itself.
func StripRecoveryParams(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()
	q.Del("access_token")
	q.Del("refresh_token")
	q.Del("type")
	u.RawQuery = q.Encode()
	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}

// paramValues resolves the parameter source of a raw location: the fragment
// when it is non-empty, otherwise the query. A bare "#..." or "?..." string
// is accepted as-is with its leading marker stripped.
func paramValues(raw string) url.Values {
	source := fragmentOf(raw)
	if source == "" {
		source = queryOf(raw)
	}
	if source == "" {
		return nil
	}

	values, err := url.ParseQuery(source)
	if err != nil {
		return nil
	}

	return values
}

func fragmentOf(raw string) string {
	i := strings.IndexByte(raw, '#')
	if i < 0 {
		return ""
	}
	return raw[i+1:]
}

func queryOf(raw string) string {
	// The fragment never contains the query, so cut it off first.
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	i := strings.IndexByte(raw, '?')
	if i < 0 {
		return ""
	}
	return raw[i+1:]
}
