package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

type stubAuth struct {
	creds api.Credentials
	err   error

	loginCalls    int
	lastEmail     string
	registerCalls int
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (api.Credentials, error) {
	s.loginCalls++
	s.lastEmail = email
	return s.creds, s.err
}

func (s *stubAuth) Register(ctx context.Context, name, email, password string, role api.Role) (api.Credentials, error) {
	s.registerCalls++
	return s.creds, s.err
}

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestLoginRejectsMalformedEmailBeforeNetwork(t *testing.T) {
	auth := &stubAuth{}
	s := NewStore(sessionPath(t), auth)

	_, err := s.Login(context.Background(), "not-an-email", "secret")
	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Zero(t, auth.loginCalls, "a malformed identifier must never reach the server")
}

func TestLoginRequiresBothFields(t *testing.T) {
	auth := &stubAuth{}
	s := NewStore(sessionPath(t), auth)

	_, err := s.Login(context.Background(), "", "secret")
	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = s.Login(context.Background(), "user@example.com", "")
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, auth.loginCalls)
}

func TestAdminLiteralSkipsEmailCheck(t *testing.T) {
	auth := &stubAuth{creds: api.Credentials{
		Token: "tok",
		User:  api.User{ID: 1, Name: "Administrator", Email: api.MasterAdminEmail, Role: api.RoleAdmin, IsActive: true},
	}}
	s := NewStore(sessionPath(t), auth)

	user, err := s.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, 1, auth.loginCalls)
	assert.Equal(t, "admin", auth.lastEmail)
	assert.True(t, user.IsMasterAdmin())
	assert.True(t, s.IsAuthenticated())
}

func TestSessionSurvivesRestart(t *testing.T) {
	path := sessionPath(t)
	auth := &stubAuth{creds: api.Credentials{
		Token: "tok-abc",
		User:  api.User{ID: 7, Name: "Jo", Email: "jo@example.com", Role: api.RoleStaff, IsActive: true},
	}}

	first := NewStore(path, auth)
	_, err := first.Login(context.Background(), "jo@example.com", "secret")
	require.NoError(t, err)

	second := NewStore(path, &stubAuth{})
	assert.Equal(t, "tok-abc", second.Token())
	user, ok := second.Current()
	require.True(t, ok)
	assert.Equal(t, "Jo", user.Name)
}

func TestLogoutClearsSessionAndSnapshot(t *testing.T) {
	path := sessionPath(t)
	auth := &stubAuth{creds: api.Credentials{Token: "tok", User: api.User{ID: 1, Email: "a@b.co"}}}
	s := NewStore(path, auth)
	_, err := s.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)

	s.Logout()
	assert.False(t, s.IsAuthenticated())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	restored := NewStore(path, auth)
	assert.False(t, restored.IsAuthenticated())
}

func TestFailedLoginLeavesStoreUnauthenticated(t *testing.T) {
	auth := &stubAuth{err: &httpx.AuthError{Status: 403, Message: "Account pending approval"}}
	s := NewStore(sessionPath(t), auth)

	_, err := s.Login(context.Background(), "jo@example.com", "secret")
	var authErr *httpx.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Account pending approval", authErr.Message)
	assert.False(t, s.IsAuthenticated())
}

func TestRegisterValidatesRole(t *testing.T) {
	auth := &stubAuth{}
	s := NewStore(sessionPath(t), auth)

	_, err := s.Register(context.Background(), "Jo", "jo@example.com", "pw", api.Role("boss"))
	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, auth.registerCalls)
}

func TestRegisterAuthenticatesImmediately(t *testing.T) {
	auth := &stubAuth{creds: api.Credentials{
		Token: "tok-new",
		User:  api.User{ID: 9, Name: "Jo", Email: "jo@example.com", Role: api.RoleStaff, IsActive: false},
	}}
	s := NewStore(sessionPath(t), auth)

	user, err := s.Register(context.Background(), "Jo", "jo@example.com", "pw", api.RoleStaff)
	require.NoError(t, err)
	assert.False(t, user.IsActive, "a fresh account is pending until approved")
	assert.True(t, s.IsAuthenticated())
}

func TestUpdateLocalUserKeepsToken(t *testing.T) {
	path := sessionPath(t)
	auth := &stubAuth{creds: api.Credentials{Token: "tok", User: api.User{ID: 1, Name: "Old", Email: "a@b.co"}}}
	s := NewStore(path, auth)
	_, err := s.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)

	s.UpdateLocalUser(api.User{ID: 1, Name: "New", Email: "a@b.co"})
	assert.Equal(t, "tok", s.Token())

	restored := NewStore(path, &stubAuth{})
	user, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "New", user.Name)
}

func TestTokenExpiryReadsClaimWithoutVerifying(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString([]byte("key-the-client-never-knows"))
	require.NoError(t, err)

	auth := &stubAuth{creds: api.Credentials{Token: signed, User: api.User{ID: 1, Email: "a@b.co"}}}
	s := NewStore(sessionPath(t), auth)
	_, err = s.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)

	got, ok := s.TokenExpiry()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiryFalseForOpaqueToken(t *testing.T) {
	auth := &stubAuth{creds: api.Credentials{Token: "not-a-jwt", User: api.User{ID: 1, Email: "a@b.co"}}}
	s := NewStore(sessionPath(t), auth)
	_, err := s.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)

	_, ok := s.TokenExpiry()
	assert.False(t, ok)
}

func TestRequireWithoutSession(t *testing.T) {
	s := NewStore(sessionPath(t), &stubAuth{})
	_, err := s.Require()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
