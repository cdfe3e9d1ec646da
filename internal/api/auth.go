package api

import (
	"context"
	"errors"

	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// AuthService is the resource client for /auth.
type AuthService struct {
	client *httpx.Client
}

// NewAuthService builds an AuthService.
func NewAuthService(client *httpx.Client) *AuthService {
	return &AuthService{client: client}
}

// Credentials is the answer to a successful login or register.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login exchanges an identifier and password for a bearer token. Any
// rejection becomes an AuthError carrying the server's message.
func (s *AuthService) Login(ctx context.Context, email, password string) (Credentials, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var creds Credentials
	if err := s.client.PostJSON(ctx, "/auth/login", body, &creds); err != nil {
		return Credentials{}, asAuthError(err)
	}
	return creds, nil
}

// Register creates an account. Role defaults server-side to staff; the
// account stays pending until an administrator approves it, but the server
// hands back credentials immediately.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role Role) (Credentials, error) {
	body := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     Role   `json:"role,omitempty"`
	}{Name: name, Email: email, Password: password, Role: role}

	var creds Credentials
	if err := s.client.PostJSON(ctx, "/auth/register", body, &creds); err != nil {
		return Credentials{}, asAuthError(err)
	}
	return creds, nil
}

// asAuthError reshapes non-2xx responses from the auth endpoints into the
// AuthError type; transport failures pass through unchanged.
func asAuthError(err error) error {
	var reqErr *httpx.RequestError
	if errors.As(err, &reqErr) {
		return &httpx.AuthError{Status: reqErr.Status, Message: reqErr.Message}
	}
	return err
}
