package console

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// UserDirectory is the slice of the admin client the view uses.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]api.User, error)
	ApproveUser(ctx context.Context, id int64, input api.ApproveUserInput) (api.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Guardrail violations. These are UX affordances only; the server enforces
// the same rules independently.
var (
	ErrMasterAdminLocked = errors.New("the master admin account cannot be modified")
	ErrSelfDeactivate    = errors.New("you cannot deactivate your own account")
	ErrSelfDelete        = errors.New("you cannot delete your own account")
)

// UserAdmin is the user management view: approvals, role changes,
// deactivation and deletion over the full account list.
type UserAdmin struct {
	admin    UserDirectory
	current  api.User
	notifier Notifier
	confirm  Confirmer
	collator *collate.Collator

	users []api.User
}

// NewUserAdmin builds the view for the given authenticated admin.
func NewUserAdmin(admin UserDirectory, current api.User, notifier Notifier, confirm Confirmer) *UserAdmin {
	return &UserAdmin{
		admin:    admin,
		current:  current,
		notifier: notifier,
		confirm:  confirm,
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// Load fetches the account list and orders it pending-first, then
// alphabetically by name. The ordering is recomputed on every fetch.
func (v *UserAdmin) Load(ctx context.Context) error {
	users, err := v.admin.ListUsers(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].IsActive != users[j].IsActive {
			return !users[i].IsActive
		}
		return v.collator.CompareString(users[i].Name, users[j].Name) < 0
	})
	v.users = users
	return nil
}

// Users returns the ordered account list from the last load.
func (v *UserAdmin) Users() []api.User {
	out := make([]api.User, len(v.users))
	copy(out, v.users)
	return out
}

// CanChangeRole reports whether the role control is enabled for a user.
// The built-in admin's role is locked.
func (v *UserAdmin) CanChangeRole(user api.User) bool {
	return !user.IsMasterAdmin()
}

// CanDeactivate reports whether the deactivate action applies to a user.
func (v *UserAdmin) CanDeactivate(user api.User) bool {
	return user.IsActive && user.ID != v.current.ID && !user.IsMasterAdmin()
}

// CanDelete reports whether the delete action applies to a user.
func (v *UserAdmin) CanDelete(user api.User) bool {
	return user.ID != v.current.ID && !user.IsMasterAdmin()
}

// Approve activates a pending account with the chosen role.
func (v *UserAdmin) Approve(ctx context.Context, user api.User, role api.Role) error {
	return v.update(ctx, user, role, true)
}

// SaveRole applies a role change to an active account. Editing your own
// role requires an extra confirmation because demoting yourself revokes
// admin access immediately, with no undo; declining issues no request.
func (v *UserAdmin) SaveRole(ctx context.Context, user api.User, role api.Role) error {
	if !v.CanChangeRole(user) {
		return ErrMasterAdminLocked
	}
	return v.update(ctx, user, role, user.IsActive)
}

// Deactivate blocks an account from logging in, after confirmation.
func (v *UserAdmin) Deactivate(ctx context.Context, user api.User) error {
	if user.ID == v.current.ID {
		return ErrSelfDeactivate
	}
	if user.IsMasterAdmin() {
		return ErrMasterAdminLocked
	}
	if !v.confirm.Confirm("Are you sure you want to DEACTIVATE " + user.Name + "? They will not be able to login.") {
		return nil
	}
	return v.update(ctx, user, user.Role, false)
}

// Delete removes an account permanently, after confirmation.
func (v *UserAdmin) Delete(ctx context.Context, user api.User) error {
	if user.ID == v.current.ID {
		return ErrSelfDelete
	}
	if user.IsMasterAdmin() {
		return ErrMasterAdminLocked
	}
	if !v.confirm.Confirm("Are you sure you want to DELETE " + user.Name + "? This action cannot be undone.") {
		return nil
	}
	if err := v.admin.DeleteUser(ctx, user.ID); err != nil {
		v.notifier.Alert(httpx.Message(err, "Failed to delete user"))
		return err
	}
	return v.Load(ctx)
}

func (v *UserAdmin) update(ctx context.Context, user api.User, role api.Role, active bool) error {
	if user.ID == v.current.ID {
		if !v.confirm.Confirm("Warning: You are editing your own account. If you demote yourself, you will lose Admin access immediately.") {
			return nil
		}
	}
	_, err := v.admin.ApproveUser(ctx, user.ID, api.ApproveUserInput{IsActive: active, Role: role})
	if err != nil {
		v.notifier.Alert(httpx.Message(err, "Failed to update user"))
		return err
	}
	v.notifier.Info("User updated successfully!")
	return v.Load(ctx)
}
