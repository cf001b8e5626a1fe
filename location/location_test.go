package location

import "testing"

func TestTokensExtraction(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		want   TokenPair
		wantOK bool
	}{
		{
			name:   "fragment form",
			raw:    "#access_token=AAA&refresh_token=BBB&type=recovery",
			want:   TokenPair{AccessToken: "AAA", RefreshToken: "BBB"},
			wantOK: true,
		},
		{
			name:   "query form",
			raw:    "?access_token=AAA&refresh_token=BBB",
			want:   TokenPair{AccessToken: "AAA", RefreshToken: "BBB"},
			wantOK: true,
		},
		{
			name:   "full url with fragment",
			raw:    "https://app.example.com/auth?type=recovery#access_token=AAA&refresh_token=BBB",
			want:   TokenPair{AccessToken: "AAA", RefreshToken: "BBB"},
			wantOK: true,
		},
		{
			name:   "full url with query only",
			raw:    "https://app.example.com/reset?access_token=AAA&refresh_token=BBB",
			want:   TokenPair{AccessToken: "AAA", RefreshToken: "BBB"},
			wantOK: true,
		},
		{
			name:   "unrelated keys do not interfere",
			raw:    "#expires_in=3600&access_token=AAA&token_type=bearer&refresh_token=BBB",
			want:   TokenPair{AccessToken: "AAA", RefreshToken: "BBB"},
			wantOK: true,
		},
		{name: "missing refresh token", raw: "#access_token=AAA"},
		{name: "missing access token", raw: "?refresh_token=BBB"},
		{name: "empty access token", raw: "#access_token=&refresh_token=BBB"},
		{name: "empty refresh token", raw: "#access_token=AAA&refresh_token="},
		{name: "marker without tokens", raw: "#type=recovery"},
		{name: "empty string", raw: ""},
		{name: "plain path", raw: "https://app.example.com/dashboard"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Tokens(tc.raw)
			if ok != tc.wantOK {
				t.Fatalf("Tokens(%q) ok=%v, want %v", tc.raw, ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("Tokens(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestHasRecoveryMarker(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"#type=recovery", true},
		{"https://app.example.com/auth#type=recovery", true},
		{"#access_token=AAA&refresh_token=BBB&type=recovery", true},
		{"#type=signup", false},
		// The marker check is fragment-specific: a query marker does not count.
		{"?type=recovery", false},
		{"https://app.example.com/auth?type=recovery", false},
		{"#access_token=AAA&refresh_token=BBB", false},
		{"", false},
		{"https://app.example.com/dashboard", false},
		// Malformed fragment falls back to a substring scan.
		{"#type=recovery&%zz", true},
	}

	for _, tc := range cases {
		if got := HasRecoveryMarker(tc.raw); got != tc.want {
			t.Errorf("HasRecoveryMarker(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestStripRecoveryParams(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{
			raw:  "https://app.example.com/auth?type=recovery#access_token=AAA&refresh_token=BBB",
			want: "https://app.example.com/auth",
		},
		{
			raw:  "https://app.example.com/reset?access_token=AAA&refresh_token=BBB&theme=dark",
			want: "https://app.example.com/reset?theme=dark",
		},
		{
			raw:  "https://app.example.com/dashboard",
			want: "https://app.example.com/dashboard",
		},
		{
			raw:  "/auth?tab=signin#type=recovery",
			want: "/auth?tab=signin",
		},
	}

	for _, tc := range cases {
		if got := StripRecoveryParams(tc.raw); got != tc.want {
			t.Errorf("StripRecoveryParams(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestTokensDoesNotMutateInput(t *testing.T) {
	raw := "#access_token=AAA&refresh_token=BBB"
	if _, ok := Tokens(raw); !ok {
		t.Fatal("expected extraction to succeed")
	}
	if raw != "#access_token=AAA&refresh_token=BBB" {
		t.Fatal("raw location must not be mutated by extraction")
	}
}
