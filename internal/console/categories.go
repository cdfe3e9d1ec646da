package console

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// CategoryDirectory is the slice of the category client the view uses.
type CategoryDirectory interface {
	List(ctx context.Context) ([]api.Category, error)
	Create(ctx context.Context, input api.CategoryInput) (api.Category, error)
	Update(ctx context.Context, id int64, input api.CategoryInput) (api.Category, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryAdmin is the category tag management view.
type CategoryAdmin struct {
	categories CategoryDirectory
	notifier   Notifier
	confirm    Confirmer

	list []api.Category
}

// NewCategoryAdmin builds the view.
func NewCategoryAdmin(categories CategoryDirectory, notifier Notifier, confirm Confirmer) *CategoryAdmin {
	return &CategoryAdmin{categories: categories, notifier: notifier, confirm: confirm}
}

// Load fetches all categories.
func (v *CategoryAdmin) Load(ctx context.Context) error {
	list, err := v.categories.List(ctx)
	if err != nil {
		return err
	}
	v.list = list
	return nil
}

// Categories returns the list from the last load.
func (v *CategoryAdmin) Categories() []api.Category {
	out := make([]api.Category, len(v.list))
	copy(out, v.list)
	return out
}

// Save creates a category, or renames the one identified by editing when
// non-nil. An empty name blocks before any request.
func (v *CategoryAdmin) Save(ctx context.Context, editing *int64, name string) error {
	if name == "" {
		verr := &httpx.ValidationError{Field: "name", Message: "Category name is required"}
		v.notifier.Alert(verr.Message)
		return verr
	}
	input := api.CategoryInput{Name: name}
	var err error
	if editing != nil {
		_, err = v.categories.Update(ctx, *editing, input)
	} else {
		_, err = v.categories.Create(ctx, input)
	}
	if err != nil {
		v.notifier.Alert(httpx.Message(err, "Failed to save category"))
		return err
	}
	return v.Load(ctx)
}

// Delete removes a category after confirmation. Products keep working and
// simply become uncategorized server-side.
func (v *CategoryAdmin) Delete(ctx context.Context, id int64) error {
	if !v.confirm.Confirm("Delete this category? Products using it will be left uncategorized.") {
		return nil
	}
	if err := v.categories.Delete(ctx, id); err != nil {
		v.notifier.Alert(httpx.Message(err, "Failed to delete category"))
		return err
	}
	return v.Load(ctx)
}
