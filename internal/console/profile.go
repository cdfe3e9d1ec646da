package console

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/platform/httpx"
	"github.com/stockdeck/stockdeck/internal/session"
)

// ProfileClient is the slice of the profile client the view uses.
type ProfileClient interface {
	UpdateName(ctx context.Context, name string) (api.User, error)
	ChangePassword(ctx context.Context, current, next string) error
}

// ProfileView lets the authenticated user edit their own account.
type ProfileView struct {
	profile  ProfileClient
	sessions *session.Store
	notifier Notifier
}

// NewProfileView builds the view.
func NewProfileView(profile ProfileClient, sessions *session.Store, notifier Notifier) *ProfileView {
	return &ProfileView{profile: profile, sessions: sessions, notifier: notifier}
}

// UpdateName changes the display name and pushes the returned snapshot into
// the session store so every view sees it without a re-login.
func (v *ProfileView) UpdateName(ctx context.Context, name string) error {
	if name == "" {
		verr := &httpx.ValidationError{Field: "name", Message: "Name cannot be empty"}
		v.notifier.Alert(verr.Message)
		return verr
	}
	user, err := v.profile.UpdateName(ctx, name)
	if err != nil {
		v.notifier.Alert(httpx.Message(err, "Failed to update profile"))
		return err
	}
	v.sessions.UpdateLocalUser(user)
	v.notifier.Info("Profile updated successfully!")
	return nil
}

// ChangePassword rotates the password. The repeat must match client-side
// before any request; the current password is verified server-side.
func (v *ProfileView) ChangePassword(ctx context.Context, current, next, repeat string) error {
	if current == "" || next == "" {
		verr := &httpx.ValidationError{Message: "Current and new passwords are required"}
		v.notifier.Alert(verr.Message)
		return verr
	}
	if next != repeat {
		verr := &httpx.ValidationError{Field: "password", Message: "New passwords don't match"}
		v.notifier.Alert(verr.Message)
		return verr
	}
	if err := v.profile.ChangePassword(ctx, current, next); err != nil {
		v.notifier.Alert(httpx.Message(err, "Failed to change password"))
		return err
	}
	v.notifier.Info("Password changed successfully!")
	return nil
}
