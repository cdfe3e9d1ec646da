package api

import (
	"context"
	"fmt"

	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// SupplierService is the resource client for /suppliers.
type SupplierService struct {
	client *httpx.Client
}

// NewSupplierService builds a SupplierService.
func NewSupplierService(client *httpx.Client) *SupplierService {
	return &SupplierService{client: client}
}

// SupplierInput carries the editable supplier fields.
type SupplierInput struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address,omitempty"`
}

// List fetches the full supplier directory, unpaged.
func (s *SupplierService) List(ctx context.Context) ([]Supplier, error) {
	var resp struct {
		Suppliers []Supplier `json:"suppliers"`
	}
	if err := s.client.Get(ctx, "/suppliers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suppliers, nil
}

// Get fetches one supplier by id.
func (s *SupplierService) Get(ctx context.Context, id int64) (Supplier, error) {
	var resp struct {
		Supplier Supplier `json:"supplier"`
	}
	if err := s.client.Get(ctx, fmt.Sprintf("/suppliers/%d", id), nil, &resp); err != nil {
		return Supplier{}, err
	}
	return resp.Supplier, nil
}

// Create registers a new supplier.
func (s *SupplierService) Create(ctx context.Context, input SupplierInput) (Supplier, error) {
	var resp struct {
		Supplier Supplier `json:"supplier"`
	}
	if err := s.client.PostJSON(ctx, "/suppliers", input, &resp); err != nil {
		return Supplier{}, err
	}
	return resp.Supplier, nil
}

// Update edits an existing supplier.
func (s *SupplierService) Update(ctx context.Context, id int64, input SupplierInput) (Supplier, error) {
	var resp struct {
		Supplier Supplier `json:"supplier"`
	}
	if err := s.client.PutJSON(ctx, fmt.Sprintf("/suppliers/%d", id), input, &resp); err != nil {
		return Supplier{}, err
	}
	return resp.Supplier, nil
}

// Delete removes a supplier. Products keep their reference server-side.
func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/suppliers/%d", id), nil)
}
