package authgate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrEthical07/authgate/session"
)

// Verdict is the tri-state authorization answer for one role name, scoped
// to the session that produced it.
type Verdict uint8

const (
	// VerdictUnknown means the role has not been checked for the current
	// session; consumers must not render protected content on it.
	VerdictUnknown Verdict = iota
	// VerdictGranted is an exported constant or variable used by the auth gate client.
	VerdictGranted
	// VerdictDenied is an exported constant or variable used by the auth gate client.
	VerdictDenied
)

func (v Verdict) String() string {
	switch v {
	case VerdictGranted:
		return "granted"
	case VerdictDenied:
		return "denied"
	default:
		return "unknown"
	}
}

type roleRecord struct {
	userID  string
	verdict Verdict
}

// RoleGate defines a public type used by authgate APIs.
//
// RoleGate instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// Every check is a live authority call; recorded verdicts exist only so
// consumers can re-read the answer for the session that produced it, and
// they are dropped the moment the session identity changes.
type RoleGate struct {
	identity    IdentityClient
	sessions    *session.Store
	metrics     *Metrics
	defaultRole string
	emit        func(ctx context.Context, event AuditEvent)

	mu       sync.Mutex
	verdicts map[string]roleRecord
	sub      *session.Subscription
}

func newRoleGate(identity IdentityClient, sessions *session.Store, metrics *Metrics, defaultRole string, emit func(context.Context, AuditEvent)) *RoleGate {
	g := &RoleGate{
		identity:    identity,
		sessions:    sessions,
		metrics:     metrics,
		defaultRole: defaultRole,
		emit:        emit,
		verdicts:    make(map[string]roleRecord),
	}

	// Any session transition invalidates recorded verdicts whose producing
	// user no longer matches; this is the guard against verdict leakage
	// across sign-out/sign-in cycles.
	g.sub = sessions.Subscribe(func(sess session.Session, present bool) {
		g.mu.Lock()
		defer g.mu.Unlock()
		for role, rec := range g.verdicts {
			if !present || rec.userID != sess.UserID {
				delete(g.verdicts, role)
			}
		}
	})

	return g
}

// Check describes the check operation and its observable behavior.
//
// Check may return an error when input validation, dependency calls, or security checks fail.
// Check always performs a live identity-service call. Fail-closed: a check
// without a session, a server denial, and a transport failure all yield
// VerdictDenied. A check that resolves after the session store has moved to
// a different user is discarded and yields VerdictUnknown with
// ErrStaleRoleCheck; the late answer is never recorded.
func (g *RoleGate) Check(ctx context.Context, roleName string) (Verdict, error) {
	if g == nil || g.identity == nil {
		return VerdictDenied, ErrControllerNotReady
	}

	sess, ok := g.sessions.Current()
	if !ok {
		return VerdictDenied, ErrRoleDenied
	}

	start := time.Now()
	granted, err := g.identity.CheckRole(ctx, sess.UserID, roleName)
	g.metrics.Observe(MetricRoleCheckLatency, time.Since(start))

	// Stale-response guard: the session may have been replaced while the
	// authority call was in flight.
	current, stillPresent := g.sessions.Current()
	if !stillPresent || current.UserID != sess.UserID {
		g.metrics.Inc(MetricRoleCheckStaleDiscarded)
		return VerdictUnknown, ErrStaleRoleCheck
	}

	if err != nil {
		g.record(roleName, sess.UserID, VerdictDenied)
		g.metrics.Inc(MetricRoleCheckDenied)
		g.audit(ctx, sess.UserID, roleName, false, err)
		return VerdictDenied, fmt.Errorf("%w: %v", ErrRoleDenied, err)
	}
	if !granted {
		g.record(roleName, sess.UserID, VerdictDenied)
		g.metrics.Inc(MetricRoleCheckDenied)
		g.audit(ctx, sess.UserID, roleName, false, nil)
		return VerdictDenied, ErrRoleDenied
	}

	g.record(roleName, sess.UserID, VerdictGranted)
	g.metrics.Inc(MetricRoleCheckGranted)
	g.audit(ctx, sess.UserID, roleName, true, nil)
	return VerdictGranted, nil
}

// CheckDefault runs [RoleGate.Check] against the configured default role.
func (g *RoleGate) CheckDefault(ctx context.Context) (Verdict, error) {
	if g == nil {
		return VerdictDenied, ErrControllerNotReady
	}
	return g.Check(ctx, g.defaultRole)
}

// Verdict returns the recorded answer for roleName, or VerdictUnknown when
// no check has completed for the current session's user. Recorded verdicts
// never survive a user change.
func (g *RoleGate) Verdict(roleName string) Verdict {
	if g == nil {
		return VerdictUnknown
	}

	sess, ok := g.sessions.Current()
	if !ok {
		return VerdictUnknown
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	rec, found := g.verdicts[roleName]
	if !found || rec.userID != sess.UserID {
		return VerdictUnknown
	}
	return rec.verdict
}

// Close releases the gate's session subscription.
func (g *RoleGate) Close() {
	if g == nil {
		return
	}
	g.sub.Unsubscribe()
}

func (g *RoleGate) record(roleName, userID string, verdict Verdict) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verdicts[roleName] = roleRecord{userID: userID, verdict: verdict}
}

func (g *RoleGate) audit(ctx context.Context, userID, roleName string, granted bool, err error) {
	if g.emit == nil {
		return
	}
	event := AuditEvent{
		EventType: auditEventRoleCheck,
		UserID:    userID,
		Role:      roleName,
		Success:   granted,
	}
	if err != nil {
		event.Error = err.Error()
	}
	g.emit(ctx, event)
}
