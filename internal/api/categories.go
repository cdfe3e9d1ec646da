package api

import (
	"context"
	"fmt"

	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// CategoryService is the resource client for /categories.
type CategoryService struct {
	client *httpx.Client
}

// NewCategoryService builds a CategoryService.
func NewCategoryService(client *httpx.Client) *CategoryService {
	return &CategoryService{client: client}
}

// CategoryInput carries the editable category fields.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// List fetches all categories. The backend returns a bare array here.
func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.client.Get(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Create registers a new category.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (Category, error) {
	var category Category
	if err := s.client.PostJSON(ctx, "/categories", input, &category); err != nil {
		return Category{}, err
	}
	return category, nil
}

// Update renames a category.
func (s *CategoryService) Update(ctx context.Context, id int64, input CategoryInput) (Category, error) {
	var category Category
	if err := s.client.PutJSON(ctx, fmt.Sprintf("/categories/%d", id), input, &category); err != nil {
		return Category{}, err
	}
	return category, nil
}

// Delete removes a category, leaving its products uncategorized.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/categories/%d", id), nil)
}
