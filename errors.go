package authgate

import "errors"

var (
	// ErrControllerNotReady is an exported constant or variable used by the auth gate client.
	ErrControllerNotReady = errors.New("controller not initialized")
	// ErrOperationInFlight is an exported constant or variable used by the auth gate client.
	ErrOperationInFlight = errors.New("operation already in flight")
	// ErrPasswordMismatch is an exported constant or variable used by the auth gate client.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPasswordTooShort is an exported constant or variable used by the auth gate client.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrInvalidCredentials is an exported constant or variable used by the auth gate client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateAccount is an exported constant or variable used by the auth gate client.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrWeakPassword is an exported constant or variable used by the auth gate client.
	ErrWeakPassword = errors.New("password rejected by identity service policy")
	// ErrInvalidToken is an exported constant or variable used by the auth gate client.
	ErrInvalidToken = errors.New("invalid recovery token")
	// ErrExpiredToken is an exported constant or variable used by the auth gate client.
	ErrExpiredToken = errors.New("expired recovery token")
	// ErrRoleDenied is an exported constant or variable used by the auth gate client.
	ErrRoleDenied = errors.New("role not granted")
	// ErrStaleRoleCheck is an exported constant or variable used by the auth gate client.
	ErrStaleRoleCheck = errors.New("role check resolved against a replaced session")
	// ErrIdentityUnavailable is an exported constant or variable used by the auth gate client.
	ErrIdentityUnavailable = errors.New("identity service unavailable")
)

// Kind partitions every error surfaced by authgate into the four handling
// classes the presentation layer distinguishes.
type Kind uint8

const (
	// KindUnknown is an exported constant or variable used by the auth gate client.
	KindUnknown Kind = iota
	// KindValidation marks local pre-network failures; no identity-service
	// interaction happened and none will until the user corrects the input.
	KindValidation
	// KindAuthentication marks identity-service rejections surfaced verbatim
	// to the user; the operation stays retryable.
	KindAuthentication
	// KindAuthorization marks fail-closed role denials; the consumer must
	// redirect away and never render protected content.
	KindAuthorization
	// KindTransport marks network-level failures surfaced generically; no
	// partial state was committed.
	KindTransport
)

// Classify maps an error returned by any authgate operation to its handling
// class. Unrecognized errors classify as KindUnknown and should be treated
// like transport failures by cautious consumers.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrPasswordMismatch), errors.Is(err, ErrPasswordTooShort):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrDuplicateAccount),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken):
		return KindAuthentication
	case errors.Is(err, ErrRoleDenied), errors.Is(err, ErrStaleRoleCheck):
		return KindAuthorization
	case errors.Is(err, ErrIdentityUnavailable):
		return KindTransport
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}
