package internaldefs

import (
	"github.com/MrEthical07/authgate"
)

// CounterDef defines a public type used by authgate APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authgate.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authgate APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authgate.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the auth gate client.
var CounterDefs = []CounterDef{
	{ID: authgate.MetricSignInSuccess, Name: "authgate_signin_success_total", Help: "Successful sign-in submissions."},
	{ID: authgate.MetricSignInFailure, Name: "authgate_signin_failure_total", Help: "Failed sign-in submissions."},
	{ID: authgate.MetricSignUpSuccess, Name: "authgate_signup_success_total", Help: "Successful sign-up submissions."},
	{ID: authgate.MetricSignUpFailure, Name: "authgate_signup_failure_total", Help: "Failed sign-up submissions."},
	{ID: authgate.MetricResetRequested, Name: "authgate_reset_requested_total", Help: "Password reset mail requests."},
	{ID: authgate.MetricRecoveryConfirmSuccess, Name: "authgate_recovery_confirm_success_total", Help: "Successful recovery confirmations."},
	{ID: authgate.MetricRecoveryConfirmFailure, Name: "authgate_recovery_confirm_failure_total", Help: "Failed recovery confirmations."},
	{ID: authgate.MetricRecoveryValidationRejected, Name: "authgate_recovery_validation_rejected_total", Help: "Recovery confirmations rejected by local validation."},
	{ID: authgate.MetricRoleCheckGranted, Name: "authgate_role_check_granted_total", Help: "Role checks answered granted."},
	{ID: authgate.MetricRoleCheckDenied, Name: "authgate_role_check_denied_total", Help: "Role checks answered denied, including fail-closed denials."},
	{ID: authgate.MetricRoleCheckStaleDiscarded, Name: "authgate_role_check_stale_discarded_total", Help: "Role check answers discarded because the session changed in flight."},
	{ID: authgate.MetricSessionReplaced, Name: "authgate_session_replaced_total", Help: "Session store replacements from identity notifications."},
	{ID: authgate.MetricSessionCleared, Name: "authgate_session_cleared_total", Help: "Session store clears from identity notifications."},
	{ID: authgate.MetricSignOut, Name: "authgate_signout_total", Help: "Sign-out submissions."},
}

// HistogramDefs is an exported constant or variable used by the auth gate client.
var HistogramDefs = []HistogramDef{
	{ID: authgate.MetricRoleCheckLatency, Name: "authgate_role_check_latency_seconds", Help: "Role check round-trip latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the auth gate client.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the auth gate client.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed bucket
// count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// both exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
