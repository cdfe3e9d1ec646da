package api

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// ProfileService is the resource client for /profile.
type ProfileService struct {
	client *httpx.Client
}

// NewProfileService builds a ProfileService.
func NewProfileService(client *httpx.Client) *ProfileService {
	return &ProfileService{client: client}
}

// UpdateName changes the authenticated user's display name and returns the
// updated user snapshot.
func (s *ProfileService) UpdateName(ctx context.Context, name string) (User, error) {
	body := struct {
		Name string `json:"name"`
	}{Name: name}

	var resp struct {
		User User `json:"user"`
	}
	if err := s.client.PutJSON(ctx, "/profile/update", body, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// ChangePassword rotates the authenticated user's password. The current
// password is re-checked server-side.
func (s *ProfileService) ChangePassword(ctx context.Context, current, next string) error {
	body := struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}{CurrentPassword: current, NewPassword: next}
	return s.client.PutJSON(ctx, "/profile/change-password", body, nil)
}
