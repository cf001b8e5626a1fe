package idhttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/authgate"
	"github.com/MrEthical07/authgate/session"
)

func mintToken(t *testing.T, sub, email string, expiresAt time.Time) string {
	t.Helper()

	claims := accessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return signed
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for empty BaseURL")
	}
}

func TestSignInInstallsSessionAndNotifies(t *testing.T) {
	access := mintToken(t, "user-42", "alice@example.com", time.Now().Add(time.Hour))

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
		if r.Header.Get("apikey") != "test-key" {
			t.Error("apikey header missing")
		}
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: access, RefreshToken: "refresh-1"})
	}))

	var got session.Session
	var present bool
	c.OnAuthStateChange(func(sess session.Session, ok bool) {
		got, present = sess, ok
	})

	if err := c.SignInWithPassword(context.Background(), "alice@example.com", "pw"); err != nil {
		t.Fatalf("SignInWithPassword failed: %v", err)
	}
	if !present || got.UserID != "user-42" || got.Email != "alice@example.com" {
		t.Fatalf("unexpected session %+v present=%v", got, present)
	}
	if got.AccessToken != access || got.RefreshToken != "refresh-1" {
		t.Fatal("token pair must ride along on the session")
	}
}

func TestSignInWrongPasswordMapsToInvalidCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(serviceError{Error: "invalid_grant", Description: "Invalid login credentials"})
	}))

	err := c.SignInWithPassword(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, authgate.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignUpDuplicateMapsToDuplicateAccount(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(serviceError{Message: "User already registered"})
	}))

	err := c.SignUp(context.Background(), "alice@example.com", "pw", "/dashboard")
	if !errors.Is(err, authgate.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestSignUpForwardsRedirectTarget(t *testing.T) {
	var seen string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query().Get("redirect_to")
		w.WriteHeader(http.StatusOK)
	}))

	if err := c.SignUp(context.Background(), "alice@example.com", "pw", "/dashboard"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if seen != "/dashboard" {
		t.Fatalf("expected redirect_to=/dashboard, got %q", seen)
	}
}

func TestSetSessionRejectsExpiredToken(t *testing.T) {
	access := mintToken(t, "user-42", "alice@example.com", time.Now().Add(-time.Hour))
	c := newTestClient(t, http.NotFoundHandler())

	err := c.SetSession(context.Background(), access, "refresh-1")
	if !errors.Is(err, authgate.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestSetSessionRejectsGarbageToken(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	if err := c.SetSession(context.Background(), "not-a-jwt", "refresh-1"); !errors.Is(err, authgate.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if err := c.SetSession(context.Background(), "", ""); !errors.Is(err, authgate.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty pair, got %v", err)
	}
}

func TestUpdateUserRequiresSession(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	err := c.UpdateUser(context.Background(), authgate.UserUpdate{Password: "secret1"})
	if !errors.Is(err, authgate.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without a session, got %v", err)
	}
}

func TestUpdateUserSendsBearer(t *testing.T) {
	access := mintToken(t, "user-42", "alice@example.com", time.Now().Add(time.Hour))

	var authHeader string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/user" {
			authHeader = r.Header.Get("Authorization")
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := c.SetSession(context.Background(), access, "refresh-1"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	if err := c.UpdateUser(context.Background(), authgate.UserUpdate{Password: "secret1"}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if authHeader != "Bearer "+access {
		t.Fatalf("expected bearer auth, got %q", authHeader)
	}
}

func TestSignOutClearsLocallyEvenWhenServerFails(t *testing.T) {
	access := mintToken(t, "user-42", "alice@example.com", time.Now().Add(time.Hour))

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/logout" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := c.SetSession(context.Background(), access, "refresh-1"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	var lastPresent = true
	c.OnAuthStateChange(func(_ session.Session, present bool) {
		lastPresent = present
	})

	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut returned %v; revocation failures are not surfaced", err)
	}
	if lastPresent {
		t.Fatal("handlers must observe the session clearing")
	}

	// A second sign-out with no session is a no-op.
	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("idempotent SignOut failed: %v", err)
	}
}

func TestCheckRoleRoundTrip(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rpc/has_role" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]bool{
			"granted": body["user_id"] == "user-42" && body["role"] == "admin",
		})
	}))

	granted, err := c.CheckRole(context.Background(), "user-42", "admin")
	if err != nil || !granted {
		t.Fatalf("expected grant, got granted=%v err=%v", granted, err)
	}

	granted, err = c.CheckRole(context.Background(), "user-99", "admin")
	if err != nil || granted {
		t.Fatalf("expected denial, got granted=%v err=%v", granted, err)
	}
}

func TestServerErrorsClassifyAsTransport(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	err := c.SignInWithPassword(context.Background(), "alice@example.com", "pw")
	if !errors.Is(err, authgate.ErrIdentityUnavailable) {
		t.Fatalf("expected ErrIdentityUnavailable, got %v", err)
	}
	if authgate.Classify(err) != authgate.KindTransport {
		t.Fatalf("expected transport kind, got %v", authgate.Classify(err))
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	access := mintToken(t, "user-42", "alice@example.com", time.Now().Add(time.Hour))
	c := newTestClient(t, http.NotFoundHandler())

	calls := 0
	sub := c.OnAuthStateChange(func(session.Session, bool) { calls++ })
	sub.Unsubscribe()
	sub.Unsubscribe()

	if err := c.SetSession(context.Background(), access, "refresh-1"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	if calls != 0 {
		t.Fatalf("unsubscribed handler must not fire, got %d calls", calls)
	}
}
