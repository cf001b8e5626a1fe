package idhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/authgate"
	"github.com/MrEthical07/authgate/session"
)

// Config defines a public type used by authgate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// BaseURL is the identity service root, without a trailing slash.
	BaseURL string

	// APIKey is sent as the apikey header on every request. Optional.
	APIKey string

	// HTTPClient overrides the transport. Defaults to a client with a
	// 10 second timeout.
	HTTPClient *http.Client
}

// Client defines a public type used by authgate APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// The token pair and handler registry are the only mutable state; both are
// guarded by the client mutex.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	handlers     map[uint64]func(session.Session, bool)
	nextID       uint64
}

// NewClient describes the newclient operation and its observable behavior.
//
// NewClient may return an error when input validation, dependency calls, or security checks fail.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("BaseURL required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL:  base,
		apiKey:   cfg.APIKey,
		http:     httpClient,
		handlers: make(map[uint64]func(session.Session, bool)),
	}, nil
}

var _ authgate.IdentityClient = (*Client)(nil)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type serviceError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Message     string `json:"msg"`
}

// SignUp describes the signup operation and its observable behavior.
//
// SignUp may return an error when input validation, dependency calls, or security checks fail.
// A successful sign-up never establishes a session; the account stays
// unusable until the verification mail is followed.
func (c *Client) SignUp(ctx context.Context, email, password, redirectTarget string) error {
	target := c.baseURL + "/signup"
	if redirectTarget != "" {
		target += "?redirect_to=" + url.QueryEscape(redirectTarget)
	}

	body := map[string]string{"email": email, "password": password}
	resp, err := c.post(ctx, target, body, "")
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode >= 400 {
		return mapServiceError(resp)
	}
	return nil
}

// SignInWithPassword describes the signinwithpassword operation and its observable behavior.
//
// SignInWithPassword may return an error when input validation, dependency calls, or security checks fail.
// On success the returned pair becomes the client's current session and all
// registered handlers observe the transition.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) error {
	target := c.baseURL + "/token?grant_type=password"
	body := map[string]string{"email": email, "password": password}

	resp, err := c.post(ctx, target, body, "")
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode >= 400 {
		return mapServiceError(resp)
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("%w: malformed token response: %v", authgate.ErrIdentityUnavailable, err)
	}

	return c.installTokens(tokens.AccessToken, tokens.RefreshToken)
}

// ResetPasswordForEmail describes the resetpasswordforemail operation and its observable behavior.
//
// ResetPasswordForEmail may return an error when input validation, dependency calls, or security checks fail.
// The call succeeds whether or not an account exists for the address; the
// identity service does not disclose account presence here.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTarget string) error {
	target := c.baseURL + "/recover"
	if redirectTarget != "" {
		target += "?redirect_to=" + url.QueryEscape(redirectTarget)
	}

	resp, err := c.post(ctx, target, map[string]string{"email": email}, "")
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode >= 400 {
		return mapServiceError(resp)
	}
	return nil
}

// SetSession describes the setsession operation and its observable behavior.
//
// SetSession may return an error when input validation, dependency calls, or security checks fail.
// The pair is validated locally for shape (a decodable, unexpired access
// token) and installed as the current session. Signature verification stays
// with the identity service; a forged token fails at the first
// authenticated call.
func (c *Client) SetSession(_ context.Context, accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return authgate.ErrInvalidToken
	}
	return c.installTokens(accessToken, refreshToken)
}

// UpdateUser describes the updateuser operation and its observable behavior.
//
// UpdateUser may return an error when input validation, dependency calls, or security checks fail.
func (c *Client) UpdateUser(ctx context.Context, update authgate.UserUpdate) error {
	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()
	if token == "" {
		return authgate.ErrInvalidToken
	}

	payload, err := json.Marshal(map[string]string{"password": update.Password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/user", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", authgate.ErrIdentityUnavailable, err)
	}
	defer drain(resp)

	if resp.StatusCode >= 400 {
		return mapServiceError(resp)
	}
	return nil
}

// SignOut describes the signout operation and its observable behavior.
//
// SignOut may return an error when input validation, dependency calls, or security checks fail.
// The local session clears even when the revocation call fails; a dead
// server must not pin a user into a signed-in shell.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.accessToken
	c.accessToken = ""
	c.refreshToken = ""
	c.mu.Unlock()

	c.notify(session.Session{}, false)

	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logout", nil)
	if err != nil {
		return err
	}
	c.authorize(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", authgate.ErrIdentityUnavailable, err)
	}
	drain(resp)
	return nil
}

// OnAuthStateChange describes the onauthstatechange operation and its observable behavior.
//
// OnAuthStateChange does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) OnAuthStateChange(handler func(session.Session, bool)) authgate.IdentitySubscription {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.handlers[id] = handler
	c.mu.Unlock()

	return &subscription{id: id, client: c}
}

// CheckRole describes the checkrole operation and its observable behavior.
//
// CheckRole may return an error when input validation, dependency calls, or security checks fail.
// Every call is a live authority round-trip; the client never caches
// membership answers.
func (c *Client) CheckRole(ctx context.Context, userID, roleName string) (bool, error) {
	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()

	body := map[string]string{"user_id": userID, "role": roleName}
	resp, err := c.post(ctx, c.baseURL+"/rpc/has_role", body, token)
	if err != nil {
		return false, err
	}
	defer drain(resp)

	if resp.StatusCode >= 400 {
		return false, mapServiceError(resp)
	}

	var out struct {
		Granted bool `json:"granted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("%w: malformed role response: %v", authgate.ErrIdentityUnavailable, err)
	}
	return out.Granted, nil
}

type subscription struct {
	id     uint64
	client *Client
	once   sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.client.mu.Lock()
		delete(s.client.handlers, s.id)
		s.client.mu.Unlock()
	})
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// sessionFromAccessToken decodes identity fields from the access token
// without verifying its signature. Expiry is still enforced locally so an
// expired recovery link fails before any authenticated call.
func sessionFromAccessToken(accessToken, refreshToken string) (session.Session, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return session.Session{}, authgate.ErrInvalidToken
	}

	sess := session.Session{
		UserID:       claims.Subject,
		Email:        claims.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Unix()
	}
	if sess.Expired(time.Now()) {
		return session.Session{}, authgate.ErrExpiredToken
	}
	return sess, nil
}

func (c *Client) installTokens(accessToken, refreshToken string) error {
	sess, err := sessionFromAccessToken(accessToken, refreshToken)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
	c.mu.Unlock()

	c.notify(sess, true)
	return nil
}

func (c *Client) notify(sess session.Session, present bool) {
	c.mu.Lock()
	handlers := make([]func(session.Session, bool), 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(sess, present)
	}
}

func (c *Client) post(ctx context.Context, target string, body any, bearer string) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authgate.ErrIdentityUnavailable, err)
	}
	return resp, nil
}

func (c *Client) authorize(req *http.Request, bearer string) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
}

// mapServiceError folds an HTTP rejection onto the authgate sentinel set so
// Classify behaves identically across identity-client implementations.
func mapServiceError(resp *http.Response) error {
	var svc serviceError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &svc)

	detail := svc.Description
	if detail == "" {
		detail = svc.Message
	}
	if detail == "" {
		detail = svc.Error
	}

	lower := strings.ToLower(detail)
	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", authgate.ErrIdentityUnavailable, resp.StatusCode)
	case strings.Contains(lower, "already registered"), resp.StatusCode == http.StatusConflict:
		return authgate.ErrDuplicateAccount
	case strings.Contains(lower, "weak password"), strings.Contains(lower, "password should be"):
		return authgate.ErrWeakPassword
	case strings.Contains(lower, "expired"):
		return authgate.ErrExpiredToken
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		if resp.Request != nil && strings.Contains(resp.Request.URL.Path, "/token") {
			return authgate.ErrInvalidCredentials
		}
		return authgate.ErrInvalidToken
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		if detail != "" {
			return fmt.Errorf("%w: %s", authgate.ErrInvalidCredentials, detail)
		}
		return authgate.ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: status %d", authgate.ErrIdentityUnavailable, resp.StatusCode)
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
