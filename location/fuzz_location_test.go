package location

import (
	"strings"
	"testing"
)

func FuzzTokens(f *testing.F) {
	f.Add("#access_token=AAA&refresh_token=BBB")
	f.Add("?access_token=AAA&refresh_token=BBB&type=recovery")
	f.Add("https://app.example.com/auth#type=recovery")
	f.Add("#access_token=&refresh_token=")
	f.Add("%%%%#?#?")
	f.Add("")

	f.Fuzz(func(t *testing.T, raw string) {
		pair, ok := Tokens(raw)
		if ok && (pair.AccessToken == "" || pair.RefreshToken == "") {
			t.Fatalf("extraction reported ok with empty token material: %+v", pair)
		}
		if !ok && pair != (TokenPair{}) {
			t.Fatalf("failed extraction must return the zero pair, got %+v", pair)
		}

		// Reading must be pure: a second pass sees the same result.
		pair2, ok2 := Tokens(raw)
		if ok2 != ok || pair2 != pair {
			t.Fatalf("extraction is not deterministic for %q", raw)
		}

		stripped := StripRecoveryParams(raw)
		if stripped != raw {
			// A rewritten location must never keep the fragment or a usable pair.
			if strings.Contains(stripped, "#") {
				t.Fatalf("stripped location %q kept a fragment", stripped)
			}
			if _, again := Tokens(stripped); again {
				t.Fatalf("stripped location %q still carries tokens", stripped)
			}
		}
	})
}
