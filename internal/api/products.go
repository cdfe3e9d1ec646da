package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// ProductService is the resource client for /products.
type ProductService struct {
	client *httpx.Client
}

// NewProductService builds a ProductService.
func NewProductService(client *httpx.Client) *ProductService {
	return &ProductService{client: client}
}

// ListProductsParams narrows a product listing. Zero values are omitted from
// the request so the server keeps its own defaults.
type ListProductsParams struct {
	Page   int
	Limit  int
	Search string
}

// ProductPage is one page of products plus pagination metadata.
type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// ProductInput carries the editable product fields. CategoryID may be nil.
type ProductInput struct {
	SKU         string
	Name        string
	Description string
	Price       int64
	Stock       int
	MinStock    int
	SupplierID  int64
	CategoryID  *int64
}

// Upload is an optional product image sent with create/update.
type Upload struct {
	Filename string
	Content  []byte
}

// StockUpdate is the payload of a stock movement. Only the direction, the
// signed quantity and the note travel to the server; any projected balance
// stays client-side.
type StockUpdate struct {
	Type     MovementType `json:"type"`
	Quantity int          `json:"quantity"`
	Note     string       `json:"note"`
}

// StockResult is the server's answer to a stock update.
type StockResult struct {
	Message     string  `json:"message"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Product     Product `json:"product"`
}

// StockHistory is a product's movement trail with a stock snapshot.
type StockHistory struct {
	Product struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	} `json:"product"`
	History []StockMovement `json:"history"`
}

// List fetches one page of products.
func (s *ProductService) List(ctx context.Context, params ListProductsParams) (ProductPage, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	var page ProductPage
	if err := s.client.Get(ctx, "/products", query, &page); err != nil {
		return ProductPage{}, err
	}
	return page, nil
}

// Get fetches a single product by id.
func (s *ProductService) Get(ctx context.Context, id int64) (Product, error) {
	var resp struct {
		Product Product `json:"product"`
	}
	if err := s.client.Get(ctx, fmt.Sprintf("/products/%d", id), nil, &resp); err != nil {
		return Product{}, err
	}
	return resp.Product, nil
}

// Create registers a new product, optionally with an image.
func (s *ProductService) Create(ctx context.Context, input ProductInput, image *Upload) (Product, error) {
	return s.submit(ctx, http.MethodPost, "/products", input, image)
}

// Update edits an existing product, optionally replacing its image.
func (s *ProductService) Update(ctx context.Context, id int64, input ProductInput, image *Upload) (Product, error) {
	return s.submit(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), input, image)
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/products/%d", id), nil)
}

// LowStock fetches every product whose stock is below its minimum, unpaged.
func (s *ProductService) LowStock(ctx context.Context) ([]Product, error) {
	var resp struct {
		Products []Product `json:"products"`
		Count    int       `json:"count"`
	}
	if err := s.client.Get(ctx, "/products/low-stock", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// UpdateStock records a stock-in or stock-out movement.
func (s *ProductService) UpdateStock(ctx context.Context, id int64, update StockUpdate) (StockResult, error) {
	var result StockResult
	if err := s.client.PostJSON(ctx, fmt.Sprintf("/products/%d/stock", id), update, &result); err != nil {
		return StockResult{}, err
	}
	return result, nil
}

// History fetches a product's stock movement trail, newest first.
func (s *ProductService) History(ctx context.Context, id int64) (StockHistory, error) {
	var history StockHistory
	if err := s.client.Get(ctx, fmt.Sprintf("/products/%d/history", id), nil, &history); err != nil {
		return StockHistory{}, err
	}
	return history, nil
}

// submit encodes the product fields as multipart form data, matching the
// backend's form contract, and decodes the returned product.
func (s *ProductService) submit(ctx context.Context, method, path string, input ProductInput, image *Upload) (Product, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"sku":         input.SKU,
		"name":        input.Name,
		"description": input.Description,
		"price":       strconv.FormatInt(input.Price, 10),
		"stock":       strconv.Itoa(input.Stock),
		"min_stock":   strconv.Itoa(input.MinStock),
		"supplier_id": strconv.FormatInt(input.SupplierID, 10),
	}
	if input.CategoryID != nil {
		fields["category_id"] = strconv.FormatInt(*input.CategoryID, 10)
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return Product{}, fmt.Errorf("api: write form field %s: %w", name, err)
		}
	}
	if image != nil {
		part, err := form.CreateFormFile("image", image.Filename)
		if err != nil {
			return Product{}, fmt.Errorf("api: attach image: %w", err)
		}
		if _, err := part.Write(image.Content); err != nil {
			return Product{}, fmt.Errorf("api: attach image: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return Product{}, fmt.Errorf("api: finalize form: %w", err)
	}

	var resp struct {
		Message string  `json:"message"`
		Product Product `json:"product"`
	}
	if err := s.client.Send(ctx, method, path, form.FormDataContentType(), &buf, &resp); err != nil {
		return Product{}, err
	}
	return resp.Product, nil
}
