package guard

import (
	"testing"

	"github.com/MrEthical07/authgate"
)

func TestProtectedFailClosed(t *testing.T) {
	cases := []struct {
		name    string
		state   authgate.State
		verdict authgate.Verdict
		want    Decision
	}{
		{"anonymous", authgate.StateAnonymous, authgate.VerdictUnknown, DecisionRedirectSignIn},
		{"recovery pending", authgate.StateRecoveryPending, authgate.VerdictUnknown, DecisionRedirectSignIn},
		{"authenticated, verdict pending", authgate.StateAuthenticated, authgate.VerdictUnknown, DecisionPending},
		{"authenticated, denied", authgate.StateAuthenticated, authgate.VerdictDenied, DecisionRedirectDashboard},
		{"authenticated, granted", authgate.StateAuthenticated, authgate.VerdictGranted, DecisionRender},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Protected(tc.state, tc.verdict); got != tc.want {
				t.Fatalf("Protected(%v, %v) = %v, want %v", tc.state, tc.verdict, got, tc.want)
			}
		})
	}
}

func TestAuthViewRoutesSignedInUsersAway(t *testing.T) {
	if got := AuthView(authgate.StateAuthenticated); got != DecisionRedirectDashboard {
		t.Fatalf("signed-in user on the auth view must be redirected, got %v", got)
	}
	if got := AuthView(authgate.StateAnonymous); got != DecisionRender {
		t.Fatalf("anonymous user must see the auth view, got %v", got)
	}
	if got := AuthView(authgate.StateRecoveryPending); got != DecisionRender {
		t.Fatalf("pending recovery must keep the auth view visible, got %v", got)
	}
}

func TestEvaluateDispatch(t *testing.T) {
	if got := Evaluate(ViewPublic, authgate.StateAnonymous, authgate.VerdictUnknown); got != DecisionRender {
		t.Fatalf("public views always render, got %v", got)
	}
	if got := Evaluate(ViewAuth, authgate.StateAuthenticated, authgate.VerdictUnknown); got != DecisionRedirectDashboard {
		t.Fatalf("expected dashboard redirect, got %v", got)
	}
	if got := Evaluate(ViewProtected, authgate.StateAuthenticated, authgate.VerdictGranted); got != DecisionRender {
		t.Fatalf("expected render, got %v", got)
	}
}
