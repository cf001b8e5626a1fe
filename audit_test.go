package authgate

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestAuditEventsReachTheSink(t *testing.T) {
	sink := NewChannelSink(16)
	identity := newFakeIdentity()

	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	c, err := New().
		WithConfig(cfg).
		WithIdentityClient(identity).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer c.Close()

	if err := c.SignIn(context.Background(), "alice@example.com", "pw"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	// Sign-in produces a session_change notification event and the sign_in
	// event itself; order between them is not part of the contract.
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case event := <-sink.Events():
			seen[event.EventType] = event.Success
			if event.Timestamp.IsZero() {
				t.Fatal("dispatcher must stamp events")
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for audit events, saw %v", seen)
		}
	}
	if !seen[auditEventSignIn] || !seen[auditEventSessionChange] {
		t.Fatalf("expected sign_in and session_change events, saw %v", seen)
	}
}

func TestAuditDisabledDropsNothingAndEmitsNothing(t *testing.T) {
	identity := newFakeIdentity()
	c := newTestController(t, identity, nil)

	if err := c.SignIn(context.Background(), "alice@example.com", "pw"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if got := c.AuditDropped(); got != 0 {
		t.Fatalf("disabled audit must report zero drops, got %d", got)
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{EventType: auditEventSignOut, Success: true})
	sink.Emit(context.Background(), AuditEvent{EventType: auditEventRoleCheck, Role: "admin"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"event_type":"sign_out"`) {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], `"role":"admin"`) {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}
