package console

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// SupplierDirectory is the slice of the supplier client the view uses.
type SupplierDirectory interface {
	List(ctx context.Context) ([]api.Supplier, error)
	Create(ctx context.Context, input api.SupplierInput) (api.Supplier, error)
	Update(ctx context.Context, id int64, input api.SupplierInput) (api.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

// SupplierForm carries the entered supplier fields with their client-side
// requirements. The server re-validates everything.
type SupplierForm struct {
	Name        string `validate:"required"`
	ContactName string `validate:"required"`
	Phone       string `validate:"required"`
	Email       string `validate:"required,email"`
	Address     string
}

// SupplierAdmin is the supplier management view: an independent
// fetch-mutate-refetch loop that also pings the dashboard whenever the
// shared supplier list changes.
type SupplierAdmin struct {
	suppliers SupplierDirectory
	notifier  Notifier
	confirm   Confirmer
	onChange  func()
	validate  *validator.Validate

	list []api.Supplier
}

// NewSupplierAdmin builds the view. onChange runs after every successful
// mutation so the dashboard can refresh its supplier state.
func NewSupplierAdmin(suppliers SupplierDirectory, notifier Notifier, confirm Confirmer, onChange func()) *SupplierAdmin {
	return &SupplierAdmin{
		suppliers: suppliers,
		notifier:  notifier,
		confirm:   confirm,
		onChange:  onChange,
		validate:  validator.New(),
	}
}

// Load fetches the supplier directory.
func (v *SupplierAdmin) Load(ctx context.Context) error {
	list, err := v.suppliers.List(ctx)
	if err != nil {
		return err
	}
	v.list = list
	return nil
}

// Suppliers returns the directory from the last load.
func (v *SupplierAdmin) Suppliers() []api.Supplier {
	out := make([]api.Supplier, len(v.list))
	copy(out, v.list)
	return out
}

// Save creates a supplier, or updates the one identified by editing when
// non-nil. Required-field checks run before any request.
func (v *SupplierAdmin) Save(ctx context.Context, editing *int64, form SupplierForm) error {
	if err := v.validate.Struct(form); err != nil {
		verr := &httpx.ValidationError{Message: "All contact fields are required"}
		v.notifier.Alert(verr.Message)
		return verr
	}
	input := api.SupplierInput{
		Name:        form.Name,
		ContactName: form.ContactName,
		Phone:       form.Phone,
		Email:       form.Email,
		Address:     form.Address,
	}
	var err error
	if editing != nil {
		_, err = v.suppliers.Update(ctx, *editing, input)
	} else {
		_, err = v.suppliers.Create(ctx, input)
	}
	if err != nil {
		v.notifier.Alert(httpx.Message(err, "Failed to save supplier"))
		return err
	}
	if err := v.Load(ctx); err != nil {
		return err
	}
	if v.onChange != nil {
		v.onChange()
	}
	return nil
}

// Delete removes a supplier after confirmation. Products linked to it are
// left pointing at a gone supplier; the server does not cascade.
func (v *SupplierAdmin) Delete(ctx context.Context, id int64) error {
	if !v.confirm.Confirm("Are you sure? This might affect products linked to this supplier.") {
		return nil
	}
	if err := v.suppliers.Delete(ctx, id); err != nil {
		v.notifier.Alert(httpx.Message(err, "Failed to delete supplier"))
		return err
	}
	if err := v.Load(ctx); err != nil {
		return err
	}
	if v.onChange != nil {
		v.onChange()
	}
	return nil
}
