package api

import (
	"context"
	"fmt"

	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// AdminService is the resource client for /admin: user approval, role
// management and the activity log. All of it requires the admin role
// server-side; the client performs no authorization of its own.
type AdminService struct {
	client *httpx.Client
}

// NewAdminService builds an AdminService.
func NewAdminService(client *httpx.Client) *AdminService {
	return &AdminService{client: client}
}

// ApproveUserInput is the combined status/role update applied to a user.
type ApproveUserInput struct {
	IsActive bool `json:"is_active"`
	Role     Role `json:"role"`
}

// ListUsers fetches every registered account.
func (s *AdminService) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.client.Get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListPendingUsers fetches accounts awaiting approval.
func (s *AdminService) ListPendingUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.client.Get(ctx, "/admin/users/pending", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ApproveUser activates, deactivates or re-roles an account in one call.
func (s *AdminService) ApproveUser(ctx context.Context, id int64, input ApproveUserInput) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := s.client.PutJSON(ctx, fmt.Sprintf("/admin/users/%d/approve", id), input, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// DeleteUser removes an account.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/admin/users/%d", id), nil)
}

// ListLogs fetches the activity log, newest first and unpaged. Filtering by
// action happens client-side.
func (s *AdminService) ListLogs(ctx context.Context) ([]ActivityLogEntry, error) {
	var logs []ActivityLogEntry
	if err := s.client.Get(ctx, "/admin/logs", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
