package console

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/session"
)

type stubProfileClient struct {
	updateCalls   int
	updatedName   string
	passwordCalls int
	current, next string
}

func (s *stubProfileClient) UpdateName(ctx context.Context, name string) (api.User, error) {
	s.updateCalls++
	s.updatedName = name
	return api.User{ID: 1, Name: name, Email: "me@example.com", Role: api.RoleStaff, IsActive: true}, nil
}

func (s *stubProfileClient) ChangePassword(ctx context.Context, current, next string) error {
	s.passwordCalls++
	s.current, s.next = current, next
	return nil
}

func newSessionStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(filepath.Join(t.TempDir(), "session.json"), nil)
}

func TestUpdateNamePushesIntoSession(t *testing.T) {
	profile := &stubProfileClient{}
	store := newSessionStore(t)
	v := NewProfileView(profile, store, &stubNotifier{})

	require.NoError(t, v.UpdateName(context.Background(), "New Name"))
	assert.Equal(t, "New Name", profile.updatedName)

	user, ok := store.Current()
	require.True(t, ok, "the session copy must reflect the change without a re-login")
	assert.Equal(t, "New Name", user.Name)
}

func TestUpdateNameRejectsEmpty(t *testing.T) {
	profile := &stubProfileClient{}
	v := NewProfileView(profile, newSessionStore(t), &stubNotifier{})

	require.Error(t, v.UpdateName(context.Background(), ""))
	assert.Zero(t, profile.updateCalls)
}

func TestChangePasswordRequiresMatchingRepeat(t *testing.T) {
	profile := &stubProfileClient{}
	notifier := &stubNotifier{}
	v := NewProfileView(profile, newSessionStore(t), notifier)

	require.Error(t, v.ChangePassword(context.Background(), "old", "new-one", "new-two"))
	assert.Zero(t, profile.passwordCalls, "a mismatch must block before any request")
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, "New passwords don't match", notifier.alerts[0])
}

func TestChangePasswordSendsCurrentAndNew(t *testing.T) {
	profile := &stubProfileClient{}
	v := NewProfileView(profile, newSessionStore(t), &stubNotifier{})

	require.NoError(t, v.ChangePassword(context.Background(), "old", "fresh", "fresh"))
	assert.Equal(t, 1, profile.passwordCalls)
	assert.Equal(t, "old", profile.current)
	assert.Equal(t, "fresh", profile.next)
}
