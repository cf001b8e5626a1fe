package authgate

import (
	"errors"

	"github.com/MrEthical07/authgate/session"
)

// Builder defines a public type used by authgate APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config    Config
	identity  IdentityClient
	navigator Navigator
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithIdentityClient describes the withidentityclient operation and its observable behavior.
//
// WithIdentityClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithIdentityClient(client IdentityClient) *Builder {
	b.identity = client
	return b
}

// WithNavigator describes the withnavigator operation and its observable behavior.
//
// WithNavigator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithNavigator(nav Navigator) *Builder {
	b.navigator = nav
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build wires the session store, role gate, audit dispatcher, and identity
// subscription, then classifies the initial navigation. The returned
// Controller is ready for concurrent use; release it with Close.
func (b *Builder) Build() (*Controller, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.identity == nil {
		return nil, errors.New("identity client required")
	}

	c := &Controller{
		config:    cfg,
		identity:  b.identity,
		navigator: b.navigator,
		sessions:  session.NewStore(),
		metrics:   NewMetrics(cfg.Metrics),
	}

	c.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	c.gate = newRoleGate(b.identity, c.sessions, c.metrics, cfg.RoleGate.DefaultRole, c.emitAudit)

	c.classifyNavigation()
	c.bindIdentity()

	b.built = true

	return c, nil
}
