package idstub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authgate/internal/stores"
)

// Config defines a public type used by authgate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// TokenSecret signs access tokens (HS256). Required.
	TokenSecret []byte

	// AccessTTL bounds access token lifetime. Defaults to 1 hour.
	AccessTTL time.Duration

	// RecoveryTTL bounds recovery token lifetime. Defaults to 15 minutes.
	RecoveryTTL time.Duration

	// MinPasswordLength is enforced on signup and password update.
	// Defaults to 6.
	MinPasswordLength int

	// RecoveryMail receives the address and recovery link instead of any
	// real mail delivery. Optional; a nil hook drops the link.
	RecoveryMail func(email, link string)
}

// Server defines a public type used by authgate APIs.
//
// Server instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Server struct {
	config   Config
	accounts *stores.AccountStore
	refresh  *stores.TokenStore
	roles    *stores.RoleStore
}

type stubClaims struct {
	Email string `json:"email"`
	SID   string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// NewServer describes the newserver operation and its observable behavior.
//
// NewServer may return an error when input validation, dependency calls, or security checks fail.
func NewServer(redisClient redis.UniversalClient, cfg Config) (*Server, error) {
	if len(cfg.TokenSecret) == 0 {
		return nil, errors.New("TokenSecret required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RecoveryTTL <= 0 {
		cfg.RecoveryTTL = 15 * time.Minute
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 6
	}

	return &Server{
		config:   cfg,
		accounts: stores.NewAccountStore(redisClient, ""),
		refresh:  stores.NewTokenStore(redisClient, "agr"),
		roles:    stores.NewRoleStore(redisClient, ""),
	}, nil
}

// Handler returns the stub's HTTP surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signup", s.handleSignUp)
	mux.HandleFunc("POST /token", s.handleToken)
	mux.HandleFunc("POST /recover", s.handleRecover)
	mux.HandleFunc("PUT /user", s.handleUpdateUser)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("POST /rpc/has_role", s.handleHasRole)
	return mux
}

// GrantRole assigns a role grant directly; tests and the stub command use
// it to seed authorization state.
func (s *Server) GrantRole(ctx context.Context, userID, role string) error {
	return s.roles.Grant(ctx, userID, role)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed body")
		return
	}

	email := strings.TrimSpace(body.Email)
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, http.StatusBadRequest, "invalid_request", "valid email required")
		return
	}
	if len(body.Password) < s.config.MinPasswordLength {
		writeError(w, http.StatusUnprocessableEntity, "weak_password", "weak password: too short")
		return
	}

	hash, err := hashPassword(body.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	record := &stores.AccountRecord{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().Unix(),
	}
	if err := s.accounts.Create(r.Context(), record); err != nil {
		if errors.Is(err, stores.ErrAccountExists) {
			writeError(w, http.StatusUnprocessableEntity, "user_exists", "User already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":    record.UserID,
		"email": record.Email,
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		writeError(w, http.StatusBadRequest, "unsupported_grant_type", "only grant_type=password is supported")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed body")
		return
	}

	record, err := s.accounts.GetByEmail(r.Context(), body.Email)
	if err != nil {
		// Not-found and wrong-password collapse into one answer so the
		// endpoint does not disclose account presence.
		if errors.Is(err, stores.ErrAccountNotFound) {
			writeError(w, http.StatusBadRequest, "invalid_grant", "Invalid login credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	match, err := verifyPassword(body.Password, record.PasswordHash)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if !match {
		writeError(w, http.StatusBadRequest, "invalid_grant", "Invalid login credentials")
		return
	}

	s.respondTokenPair(w, r, record, s.config.AccessTTL)
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed body")
		return
	}

	record, err := s.accounts.GetByEmail(r.Context(), body.Email)
	if err != nil {
		// Unknown addresses still answer 200; the mail simply never
		// arrives.
		w.WriteHeader(http.StatusOK)
		return
	}

	pair, err := s.mintPair(r, record, s.config.RecoveryTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	redirectTo := r.URL.Query().Get("redirect_to")
	link := redirectTo + "#access_token=" + url.QueryEscape(pair.AccessToken) +
		"&refresh_token=" + url.QueryEscape(pair.RefreshToken) +
		"&type=recovery"
	if s.config.RecoveryMail != nil {
		s.config.RecoveryMail(record.Email, link)
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed body")
		return
	}
	if len(body.Password) < s.config.MinPasswordLength {
		writeError(w, http.StatusUnprocessableEntity, "weak_password", "weak password: too short")
		return
	}

	hash, err := hashPassword(body.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if err := s.accounts.UpdatePassword(r.Context(), claims.Subject, hash); err != nil {
		if errors.Is(err, stores.ErrAccountNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid_token", "unknown user")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": claims.Subject})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if claims.SID != "" {
		_ = s.refresh.Delete(r.Context(), claims.SID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHasRole(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	var body struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed body")
		return
	}

	granted, err := s.roles.Has(r.Context(), body.UserID, body.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"granted": granted})
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func (s *Server) mintPair(r *http.Request, record *stores.AccountRecord, ttl time.Duration) (tokenPair, error) {
	refreshToken := uuid.NewString()
	if err := s.refresh.Save(r.Context(), refreshToken, record.UserID, ttl); err != nil {
		return tokenPair{}, err
	}

	now := time.Now()
	claims := stubClaims{
		Email: record.Email,
		SID:   refreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   record.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.TokenSecret)
	if err != nil {
		return tokenPair{}, err
	}

	return tokenPair{
		AccessToken:  signed,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(ttl.Seconds()),
		TokenType:    "bearer",
	}, nil
}

func (s *Server) respondTokenPair(w http.ResponseWriter, r *http.Request, record *stores.AccountRecord, ttl time.Duration) {
	pair, err := s.mintPair(r, record, ttl)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*stubClaims, bool) {
	const bearer = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearer) {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return nil, false
	}

	claims := &stubClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(header[len(bearer):], claims, func(*jwt.Token) (interface{}, error) {
		return s.config.TokenSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			writeError(w, http.StatusUnauthorized, "invalid_token", "token expired")
			return nil, false
		}
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid bearer token")
		return nil, false
	}
	return claims, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, map[string]string{
		"error":             code,
		"error_description": description,
	})
}
