// Package session holds the authenticated identity and bearer credential.
// The Store is the only writer; every other component reads through it,
// including the HTTP transport that attaches the token to requests.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// Authenticator is the slice of the auth client the store depends on.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.Credentials, error)
	Register(ctx context.Context, name, email, password string, role api.Role) (api.Credentials, error)
}

// Store owns the session state and its on-disk snapshot: token plus user
// copy, restored on startup so a login survives process restarts.
type Store struct {
	mu       sync.RWMutex
	path     string
	auth     Authenticator
	validate *validator.Validate

	token string
	user  *api.User
}

type snapshot struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// NewStore builds a Store and restores any persisted session from path. A
// missing or unreadable snapshot leaves the store unauthenticated.
func NewStore(path string, auth Authenticator) *Store {
	s := &Store{
		path:     path,
		auth:     auth,
		validate: validator.New(),
	}
	s.restore()
	return s
}

// Token returns the bearer credential, or "" when unauthenticated. It
// satisfies httpx.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current returns the authenticated user snapshot.
func (s *Store) Current() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether a session is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Login authenticates with an email address, or with the literal "admin"
// identifier of the built-in administrator, which skips the email format
// check. The format check runs before any request is issued.
func (s *Store) Login(ctx context.Context, identifier, password string) (api.User, error) {
	if identifier == "" || password == "" {
		return api.User{}, &httpx.ValidationError{Message: "Email and password are required"}
	}
	if identifier != api.MasterAdminEmail {
		if err := s.validate.Var(identifier, "email"); err != nil {
			return api.User{}, &httpx.ValidationError{Field: "email", Message: "Please enter a valid email address."}
		}
	}
	creds, err := s.auth.Login(ctx, identifier, password)
	if err != nil {
		return api.User{}, err
	}
	s.set(creds)
	return creds.User, nil
}

// Register creates an account and authenticates with the credentials the
// server hands back immediately, even while approval is pending.
func (s *Store) Register(ctx context.Context, name, email, password string, role api.Role) (api.User, error) {
	if name == "" || email == "" || password == "" {
		return api.User{}, &httpx.ValidationError{Message: "All fields are required"}
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return api.User{}, &httpx.ValidationError{Field: "email", Message: "Please enter a valid email address."}
	}
	if role != "" && role != api.RoleAdmin && role != api.RoleStaff {
		return api.User{}, &httpx.ValidationError{Field: "role", Message: "Role must be 'admin' or 'staff'"}
	}
	creds, err := s.auth.Register(ctx, name, email, password, role)
	if err != nil {
		return api.User{}, err
	}
	s.set(creds)
	return creds.User, nil
}

// Logout clears the session and removes the snapshot file.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	_ = os.Remove(s.path)
}

// UpdateLocalUser replaces the persisted user copy after a profile change.
// The token is untouched.
func (s *Store) UpdateLocalUser(user api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.persist()
}

// TokenExpiry peeks at the token's exp claim without verifying the
// signature; verification is the server's job.
func (s *Store) TokenExpiry() (time.Time, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) set(creds api.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = creds.Token
	user := creds.User
	s.user = &user
	s.persist()
}

func (s *Store) persist() {
	snap := snapshot{Token: s.token}
	if s.user != nil {
		snap.User = *s.user
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		_ = os.MkdirAll(dir, 0o700)
	}
	_ = os.WriteFile(s.path, data, 0o600)
}

func (s *Store) restore() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.Token == "" {
		return
	}
	s.token = snap.Token
	s.user = &snap.User
}

// ErrNotAuthenticated is returned by callers that require a session.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// Require returns the current user or ErrNotAuthenticated.
func (s *Store) Require() (api.User, error) {
	user, ok := s.Current()
	if !ok {
		return api.User{}, ErrNotAuthenticated
	}
	return user, nil
}
