package authgate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/authgate/location"
	"github.com/MrEthical07/authgate/session"
)

// Controller defines a public type used by authgate APIs.
//
// Controller instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// A Controller orchestrates the four auth flows against the identity service
// and owns the process-wide session store. It never renders: presentation
// layers read Mode, State, the store, and role verdicts.
type Controller struct {
	config    Config
	identity  IdentityClient
	navigator Navigator
	sessions  *session.Store
	gate      *RoleGate
	metrics   *Metrics
	audit     *auditDispatcher

	// busy guards against duplicate concurrent submissions: between an
	// identity-service call and its resolution, re-submission is refused.
	busy atomic.Bool

	mu              sync.Mutex
	mode            AuthMode
	recoveryPending bool

	identitySub IdentitySubscription
	closeOnce   sync.Once
}

// Sessions returns the process-wide session store shared by every consumer.
func (c *Controller) Sessions() *session.Store {
	if c == nil {
		return nil
	}
	return c.sessions
}

// Gate returns the role gate bound to this controller's session store.
func (c *Controller) Gate() *RoleGate {
	if c == nil {
		return nil
	}
	return c.gate
}

// Mode returns the active form variant.
func (c *Controller) Mode() AuthMode {
	if c == nil {
		return ModeSignIn
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches the active form variant in response to a user action
// (tab change, "forgot password?", cancel). Leaving ModeRecoveryConfirm
// abandons the recovery flow; abandonment requires no identity-service
// interaction and never faults.
func (c *Controller) SetMode(mode AuthMode) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeRecoveryConfirm && mode != ModeRecoveryConfirm {
		c.recoveryPending = false
	}
	c.mode = mode
}

// RecoveryPending reports whether the initial navigation carried the
// recovery marker and the flow has not yet been confirmed or abandoned.
func (c *Controller) RecoveryPending() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recoveryPending
}

// State derives the controller's position in the authentication state
// machine from the session store and the recovery flag.
func (c *Controller) State() State {
	if c == nil {
		return StateAnonymous
	}

	c.mu.Lock()
	pending := c.recoveryPending
	c.mu.Unlock()

	if pending {
		return StateRecoveryPending
	}
	if _, ok := c.sessions.Current(); ok {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Busy reports whether an operation is in flight. Presentation layers use
// it to disable the submit control.
func (c *Controller) Busy() bool {
	return c != nil && c.busy.Load()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Controller) MetricsSnapshot() MetricsSnapshot {
	if c == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}, Histograms: map[MetricID][]uint64{}}
	}
	return c.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
func (c *Controller) AuditDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.audit.Dropped()
}

// Close tears down the controller: the identity subscription, the role
// gate, the session store, and the audit dispatcher are released. Close is
// idempotent.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		if c.identitySub != nil {
			c.identitySub.Unsubscribe()
		}
		c.gate.Close()
		c.sessions.Close()
		c.audit.Close()
	})
}

func (c *Controller) beginOp() error {
	if c == nil || c.identity == nil {
		return ErrControllerNotReady
	}
	if !c.busy.CompareAndSwap(false, true) {
		return ErrOperationInFlight
	}
	return nil
}

func (c *Controller) endOp() {
	c.busy.Store(false)
}

func (c *Controller) metricInc(id MetricID) {
	c.metrics.Inc(id)
}

func (c *Controller) emitAudit(ctx context.Context, event AuditEvent) {
	if c.audit == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	c.audit.Emit(ctx, event)
}

// classifyNavigation seeds recovery state from the initial location. The
// marker predicate alone decides RecoveryPending; token presence is checked
// separately by the confirm flow.
func (c *Controller) classifyNavigation() {
	if c.navigator == nil {
		return
	}

	raw := c.navigator.Location()
	c.mu.Lock()
	defer c.mu.Unlock()
	if location.HasRecoveryMarker(raw) {
		c.recoveryPending = true
		c.mode = ModeRecoveryConfirm
	}
}

// bindIdentity bridges identity-service notifications into the session
// store. Delivery order is preserved: the store serializes transitions.
func (c *Controller) bindIdentity() {
	c.identitySub = c.identity.OnAuthStateChange(func(sess session.Session, present bool) {
		if present {
			c.metricInc(MetricSessionReplaced)
			c.sessions.Replace(sess)
		} else {
			c.metricInc(MetricSessionCleared)
			c.sessions.Clear()
		}
		c.emitAudit(context.Background(), AuditEvent{
			EventType: auditEventSessionChange,
			UserID:    sess.UserID,
			Success:   present,
		})
	})
}

// mapIdentityError converts identity-client failures to the authgate
// taxonomy. Sentinel errors pass through; anything unrecognized is a
// transport failure with no partial state committed.
func mapIdentityError(err error) error {
	if err == nil {
		return nil
	}
	if Classify(err) != KindUnknown {
		return err
	}
	return fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
}
