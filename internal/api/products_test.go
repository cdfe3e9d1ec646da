package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

func newTestClient(t *testing.T, router chi.Router) *httpx.Client {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return httpx.New(srv.URL, 5*time.Second, nil, nil)
}

func TestListSendsOnlyNonZeroParams(t *testing.T) {
	var gotQuery map[string][]string
	r := chi.NewRouter()
	r.Get("/products", func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.Query()
		json.NewEncoder(w).Encode(ProductPage{
			Products:   []Product{{ID: 1, SKU: "SKU-1"}},
			Pagination: Pagination{Page: 2, Limit: 12, Total: 30, TotalPages: 3},
		})
	})
	s := NewProductService(newTestClient(t, r))

	page, err := s.List(context.Background(), ListProductsParams{Page: 2, Limit: 12, Search: "widget"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"12"}, gotQuery["limit"])
	assert.Equal(t, []string{"widget"}, gotQuery["search"])
	assert.Equal(t, 30, page.Pagination.Total)

	_, err = s.List(context.Background(), ListProductsParams{})
	require.NoError(t, err)
	assert.Empty(t, gotQuery, "zero values must be omitted so the server keeps its defaults")
}

func TestUpdateStockPostsDirectionQuantityNote(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	r := chi.NewRouter()
	r.Post("/products/{id}/stock", func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		require.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(StockResult{
			Message:     "Stock updated",
			StockBefore: 10,
			StockAfter:  7,
			Product:     Product{ID: 5, Stock: 7},
		})
	})
	s := NewProductService(newTestClient(t, r))

	result, err := s.UpdateStock(context.Background(), 5, StockUpdate{Type: MovementOut, Quantity: 3, Note: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, "/products/5/stock", gotPath)
	assert.Equal(t, map[string]any{"type": "out", "quantity": float64(3), "note": "damaged"}, gotBody,
		"only the direction, quantity and note travel; no projected balance")
	assert.Equal(t, 7, result.StockAfter)
}

func TestCreateEncodesMultipartFormWithImage(t *testing.T) {
	var gotFields map[string]string
	var gotImage []byte
	var gotImageName string
	r := chi.NewRouter()
	r.Post("/products", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for name, values := range req.MultipartForm.Value {
			gotFields[name] = values[0]
		}
		file, header, err := req.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		gotImageName = header.Filename
		gotImage, err = io.ReadAll(file)
		require.NoError(t, err)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Product created",
			"product": Product{ID: 1, SKU: "SKU-1"},
		})
	})
	s := NewProductService(newTestClient(t, r))

	input := ProductInput{
		SKU:         "SKU-1",
		Name:        "Widget",
		Description: "A widget",
		Price:       1500,
		Stock:       10,
		MinStock:    3,
		SupplierID:  2,
	}
	image := &Upload{Filename: "widget.png", Content: []byte{1, 2, 3}}
	created, err := s.Create(context.Background(), input, image)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	assert.Equal(t, map[string]string{
		"sku":         "SKU-1",
		"name":        "Widget",
		"description": "A widget",
		"price":       "1500",
		"stock":       "10",
		"min_stock":   "3",
		"supplier_id": "2",
	}, gotFields)
	assert.Equal(t, "widget.png", gotImageName)
	assert.Equal(t, []byte{1, 2, 3}, gotImage)
}

func TestCreateIncludesCategoryOnlyWhenSet(t *testing.T) {
	var gotFields map[string][]string
	r := chi.NewRouter()
	r.Post("/products", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseMultipartForm(1<<20))
		gotFields = req.MultipartForm.Value
		json.NewEncoder(w).Encode(map[string]any{"product": Product{ID: 1}})
	})
	s := NewProductService(newTestClient(t, r))

	input := ProductInput{SKU: "SKU-1", Name: "Widget", Price: 1, SupplierID: 1}
	_, err := s.Create(context.Background(), input, nil)
	require.NoError(t, err)
	assert.NotContains(t, gotFields, "category_id")

	category := int64(8)
	input.CategoryID = &category
	_, err = s.Create(context.Background(), input, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"8"}, gotFields["category_id"])
}

func TestUpdatePutsToProductPath(t *testing.T) {
	var gotMethod, gotPath string
	r := chi.NewRouter()
	r.Put("/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		gotMethod = req.Method
		gotPath = req.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"product": Product{ID: 5}})
	})
	s := NewProductService(newTestClient(t, r))

	_, err := s.Update(context.Background(), 5, ProductInput{SKU: "SKU-5", Name: "W", Price: 1, SupplierID: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/products/5", gotPath)
}

func TestLowStockUnwrapsEnvelope(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/products/low-stock", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"products": []Product{{ID: 1, Stock: 1, MinStock: 5}, {ID: 2, Stock: 0, MinStock: 2}},
			"count":    2,
		})
	})
	s := NewProductService(newTestClient(t, r))

	low, err := s.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.True(t, low[0].LowStock())
}

func TestHistoryDecodesSnapshotAndTrail(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/products/{id}/history", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"product": map[string]any{"id": 5, "name": "Widget", "stock": 7},
			"history": []StockMovement{
				{ID: 2, ProductID: 5, Type: MovementOut, Quantity: 3, StockBefore: 10, StockAfter: 7},
				{ID: 1, ProductID: 5, Type: MovementIn, Quantity: 10, StockBefore: 0, StockAfter: 10},
			},
		})
	})
	s := NewProductService(newTestClient(t, r))

	history, err := s.History(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Widget", history.Product.Name)
	assert.Equal(t, 7, history.Product.Stock)
	require.Len(t, history.History, 2)
	assert.Equal(t, MovementOut, history.History[0].Type)
}

func TestDeleteSurfacesServerError(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "Product has stock movements"})
	})
	s := NewProductService(newTestClient(t, r))

	err := s.Delete(context.Background(), 5)
	var reqErr *httpx.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Product has stock movements", reqErr.Message)
}

func TestLowStockPredicate(t *testing.T) {
	assert.True(t, Product{Stock: 2, MinStock: 5}.LowStock())
	assert.False(t, Product{Stock: 5, MinStock: 5}.LowStock(), "equal to the minimum is not low")
	assert.False(t, Product{Stock: 9, MinStock: 5}.LowStock())
	assert.False(t, Product{Stock: 0, MinStock: 0}.LowStock())
}
