package authgate

import "errors"

// Config defines a public type used by authgate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Recovery RecoveryConfig
	Password PasswordConfig
	RoleGate RoleGateConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
RECOVERY CONFIG
====================================
*/

// RecoveryConfig defines a public type used by authgate APIs.
//
// RecoveryConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RecoveryConfig struct {
	// RedirectTarget is embedded in recovery mails; the identity service
	// appends token material to it when the user follows the link.
	RedirectTarget string

	// SignUpRedirectTarget is embedded in verification mails sent on
	// sign-up.
	SignUpRedirectTarget string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by authgate APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	// MinLength is enforced locally before any identity-service call.
	MinLength int
}

/*
====================================
ROLE GATE CONFIG
====================================
*/

// RoleGateConfig defines a public type used by authgate APIs.
//
// RoleGateConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RoleGateConfig struct {
	// DefaultRole is the role name checked by [RoleGate.CheckDefault];
	// individual checks may name any role explicitly.
	DefaultRole string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by authgate APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authgate APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		Recovery: RecoveryConfig{
			RedirectTarget:       "/auth?type=recovery",
			SignUpRedirectTarget: "/dashboard",
		},
		Password: PasswordConfig{
			MinLength: 6,
		},
		RoleGate: RoleGateConfig{
			DefaultRole: "admin",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c Config) Validate() error {
	if c.Password.MinLength < 1 {
		return errors.New("Password.MinLength must be at least 1")
	}
	if c.Recovery.RedirectTarget == "" {
		return errors.New("Recovery.RedirectTarget required")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	// All sections are value types today; the copy is the clone. The
	// indirection survives so adding reference fields later keeps Build
	// isolation intact.
	return cfg
}
