package authgate

import (
	"context"

	"github.com/MrEthical07/authgate/session"
)

// AuthMode identifies which of the four mutually exclusive form variants is
// active. Exactly one mode is active per render; transitions are user- or
// URL-triggered, never concurrent.
type AuthMode uint8

const (
	// ModeSignIn is an exported constant or variable used by the auth gate client.
	ModeSignIn AuthMode = iota
	// ModeSignUp is an exported constant or variable used by the auth gate client.
	ModeSignUp
	// ModeResetRequest is an exported constant or variable used by the auth gate client.
	ModeResetRequest
	// ModeRecoveryConfirm is an exported constant or variable used by the auth gate client.
	ModeRecoveryConfirm
)

func (m AuthMode) String() string {
	switch m {
	case ModeSignIn:
		return "sign_in"
	case ModeSignUp:
		return "sign_up"
	case ModeResetRequest:
		return "reset_request"
	case ModeRecoveryConfirm:
		return "recovery_confirm"
	default:
		return "unknown"
	}
}

// State is the controller's position in the authentication state machine.
type State uint8

const (
	// StateAnonymous is an exported constant or variable used by the auth gate client.
	StateAnonymous State = iota
	// StateRecoveryPending is entered when the initial navigation carries the
	// recovery marker; exited by successful confirmation or abandonment.
	StateRecoveryPending
	// StateAuthenticated is an exported constant or variable used by the auth gate client.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateRecoveryPending:
		return "recovery_pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// TokenPair carries an access/refresh token pair handed to the controller by
// a recovery navigation. It is consumed at most once.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserUpdate describes the mutable attributes of the signed-in user. Only
// the password is updatable through this client today.
type UserUpdate struct {
	Password string
}

// IdentitySubscription is the cancellable registration returned by
// [IdentityClient.OnAuthStateChange]. Unsubscribe must be idempotent.
type IdentitySubscription interface {
	Unsubscribe()
}

// IdentityClient is the fixed capability set through which authgate reaches
// the remote identity service. Implementations own durable token
// persistence across reloads; authgate only observes the in-memory session
// abstraction they report.
//
// Every method performing I/O takes a context; implementations must map
// their transport failures onto the authgate sentinel errors
// (ErrInvalidCredentials, ErrDuplicateAccount, ErrInvalidToken,
// ErrIdentityUnavailable, ...) so the controller's taxonomy holds.
type IdentityClient interface {
	// SignUp registers a new account and sends a verification mail that
	// redirects to redirectTarget. No session is established.
	SignUp(ctx context.Context, email, password, redirectTarget string) error

	// SignInWithPassword authenticates and, on success, reports the new
	// session through OnAuthStateChange handlers.
	SignInWithPassword(ctx context.Context, email, password string) error

	// ResetPasswordForEmail sends a recovery link embedding redirectTarget.
	// Unknown addresses must be reported as success (no enumeration leak).
	ResetPasswordForEmail(ctx context.Context, email, redirectTarget string) error

	// SetSession installs a session from an explicit token pair, reporting
	// it through OnAuthStateChange on success.
	SetSession(ctx context.Context, accessToken, refreshToken string) error

	// UpdateUser mutates the signed-in user.
	UpdateUser(ctx context.Context, update UserUpdate) error

	// SignOut terminates the current session and reports the absence
	// through OnAuthStateChange.
	SignOut(ctx context.Context) error

	// OnAuthStateChange registers a handler invoked with the new session
	// (or absence) on sign-in, sign-out, token refresh, and explicit
	// session replacement.
	OnAuthStateChange(handler func(sess session.Session, present bool)) IdentitySubscription

	// CheckRole evaluates role membership server-side. The result is a
	// point-in-time authority answer, never a cacheable claim.
	CheckRole(ctx context.Context, userID, roleName string) (bool, error)
}

// Navigator is the browser navigation surface the controller reads and, on
// successful recovery confirmation, rewrites in place. No other history
// manipulation is performed.
type Navigator interface {
	// Location returns the current raw location (URL, or fragment/query
	// string). Reading must have no side effects.
	Location() string

	// ReplaceLocation rewrites the visible address without navigating.
	ReplaceLocation(raw string)
}
