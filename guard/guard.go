package guard

import (
	"github.com/MrEthical07/authgate"
)

// Decision is the route-level answer for one evaluation of authgate state.
type Decision uint8

const (
	// DecisionPending means the answer is not known yet; render a neutral
	// loading surface, never the protected content.
	DecisionPending Decision = iota
	// DecisionRender is an exported constant or variable used by the auth gate client.
	DecisionRender
	// DecisionRedirectSignIn is an exported constant or variable used by the auth gate client.
	DecisionRedirectSignIn
	// DecisionRedirectDashboard is an exported constant or variable used by the auth gate client.
	DecisionRedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case DecisionRender:
		return "render"
	case DecisionRedirectSignIn:
		return "redirect-signin"
	case DecisionRedirectDashboard:
		return "redirect-dashboard"
	default:
		return "pending"
	}
}

// View classifies the surface being routed to.
type View uint8

const (
	// ViewPublic is an exported constant or variable used by the auth gate client.
	ViewPublic View = iota
	// ViewAuth is an exported constant or variable used by the auth gate client.
	ViewAuth
	// ViewProtected is an exported constant or variable used by the auth gate client.
	ViewProtected
)

// Protected decides routing for content that requires an authenticated user
// whose role check has resolved. Fail-closed: an unresolved verdict is
// pending, never a render; a denial redirects away from the content.
func Protected(state authgate.State, verdict authgate.Verdict) Decision {
	if state != authgate.StateAuthenticated {
		return DecisionRedirectSignIn
	}

	switch verdict {
	case authgate.VerdictGranted:
		return DecisionRender
	case authgate.VerdictDenied:
		return DecisionRedirectDashboard
	default:
		return DecisionPending
	}
}

// AuthView decides routing for the sign-in/sign-up surface. An authenticated
// user has no business on it and is sent to the dashboard. A pending recovery
// flow still renders: the recovery form lives on this surface, and eager token
// adoption authenticates before the password is updated.
func AuthView(state authgate.State) Decision {
	if state == authgate.StateAuthenticated {
		return DecisionRedirectDashboard
	}
	return DecisionRender
}

// Evaluate dispatches on the view class. Public views always render.
func Evaluate(view View, state authgate.State, verdict authgate.Verdict) Decision {
	switch view {
	case ViewProtected:
		return Protected(state, verdict)
	case ViewAuth:
		return AuthView(state)
	default:
		return DecisionRender
	}
}
