package console

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// ProductLister is the slice of the product client the dashboard uses.
type ProductLister interface {
	List(ctx context.Context, params api.ListProductsParams) (api.ProductPage, error)
	LowStock(ctx context.Context) ([]api.Product, error)
	Create(ctx context.Context, input api.ProductInput, image *api.Upload) (api.Product, error)
	Update(ctx context.Context, id int64, input api.ProductInput, image *api.Upload) (api.Product, error)
	Delete(ctx context.Context, id int64) error
}

// SupplierLister is the slice of the supplier client the dashboard uses.
type SupplierLister interface {
	List(ctx context.Context) ([]api.Supplier, error)
}

// Stats are the dashboard's aggregate counters, always derived from a fresh
// fetch and never patched locally.
type Stats struct {
	TotalProducts  int
	LowStockCount  int
	TotalSuppliers int
}

// Dashboard owns the product page, the supplier directory, the search and
// filter state and the counters. Every state-affecting change triggers a
// full refresh cycle; a cycle applies all of its three responses or none.
type Dashboard struct {
	products  ProductLister
	suppliers SupplierLister
	logger    *slog.Logger
	pageSize  int

	mu          sync.Mutex
	gen         uint64
	page        int
	search      string
	lowOnly     bool
	productList []api.Product
	supplierDir []api.Supplier
	pagination  api.Pagination
	stats       Stats
}

// NewDashboard builds a Dashboard starting at page 1 with no filters.
func NewDashboard(products ProductLister, suppliers SupplierLister, pageSize int, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		products:  products,
		suppliers: suppliers,
		logger:    logger,
		pageSize:  pageSize,
		page:      1,
	}
}

// Prime seeds the page cursor, search term and low-stock filter before the
// first refresh, without issuing any request.
func (d *Dashboard) Prime(page int, search string, lowOnly bool) {
	if page < 1 {
		page = 1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.page = page
	d.search = search
	d.lowOnly = lowOnly
}

// Refresh re-fetches everything the dashboard renders: the supplier
// directory, the low-stock set and the current product page, issued
// concurrently and applied only once all three succeed. Each cycle carries
// a generation stamp; a cycle that was superseded while in flight is
// discarded so a stale response can never overwrite fresher state.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	params := api.ListProductsParams{Page: d.page, Limit: d.pageSize, Search: d.search}
	lowOnly := d.lowOnly
	d.mu.Unlock()

	var (
		supplierDir []api.Supplier
		lowStock    []api.Product
		productPage api.ProductPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		supplierDir, err = d.suppliers.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		lowStock, err = d.products.LowStock(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		productPage, err = d.products.List(gctx, params)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		if d.logger != nil {
			d.logger.Debug("discarding superseded refresh", slog.Uint64("generation", gen))
		}
		return nil
	}
	d.supplierDir = supplierDir
	d.stats = Stats{
		TotalProducts:  productPage.Pagination.Total,
		LowStockCount:  len(lowStock),
		TotalSuppliers: len(supplierDir),
	}
	if lowOnly {
		d.productList = lowStock
		d.pagination = api.Pagination{}
	} else {
		d.productList = productPage.Products
		d.pagination = productPage.Pagination
	}
	return nil
}

// Search sets the search term, resets to page 1 and refreshes.
func (d *Dashboard) Search(ctx context.Context, term string) error {
	d.mu.Lock()
	d.search = term
	d.page = 1
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// SetLowStockOnly toggles the low-stock filter, resets to page 1 and
// refreshes.
func (d *Dashboard) SetLowStockOnly(ctx context.Context, on bool) error {
	d.mu.Lock()
	d.lowOnly = on
	d.page = 1
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// SetPage moves the page cursor and refreshes. Pages below 1 clamp to 1.
func (d *Dashboard) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	d.mu.Lock()
	d.page = page
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// SaveProduct creates a product, or updates the one identified by editing
// when non-nil, then refreshes so the list and counters reflect committed
// server state. Required-field presence is checked before any request; the
// server owns every other rule (SKU uniqueness included).
func (d *Dashboard) SaveProduct(ctx context.Context, editing *int64, input api.ProductInput, image *api.Upload) error {
	if input.SKU == "" || input.Name == "" || input.Price <= 0 || input.SupplierID == 0 {
		return &httpx.ValidationError{Message: "SKU, Name, Price, and Supplier are required"}
	}
	var err error
	if editing != nil {
		_, err = d.products.Update(ctx, *editing, input, image)
	} else {
		_, err = d.products.Create(ctx, input, image)
	}
	if err != nil {
		return err
	}
	return d.Refresh(ctx)
}

// DeleteProduct removes a product after an explicit confirmation. On
// success the dashboard re-fetches from page 1 rather than patching the
// list; declining the prompt issues no request.
func (d *Dashboard) DeleteProduct(ctx context.Context, id int64, confirm Confirmer) error {
	if !confirm.Confirm("Are you sure you want to delete this product?") {
		return nil
	}
	if err := d.products.Delete(ctx, id); err != nil {
		return err
	}
	d.mu.Lock()
	d.page = 1
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// Products returns the currently displayed product list.
func (d *Dashboard) Products() []api.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]api.Product, len(d.productList))
	copy(out, d.productList)
	return out
}

// Suppliers returns the supplier directory from the last refresh.
func (d *Dashboard) Suppliers() []api.Supplier {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]api.Supplier, len(d.supplierDir))
	copy(out, d.supplierDir)
	return out
}

// Stats returns the aggregate counters from the last refresh.
func (d *Dashboard) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Pagination returns the page metadata of the displayed list.
func (d *Dashboard) Pagination() api.Pagination {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pagination
}

// ShowPagination reports whether pagination controls apply: never while the
// low-stock filter is active, otherwise only with more than one page.
func (d *Dashboard) ShowPagination() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.lowOnly && d.pagination.TotalPages > 1
}

// Page returns the current page cursor.
func (d *Dashboard) Page() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}

// LowStockOnly reports whether the low-stock filter is active.
func (d *Dashboard) LowStockOnly() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lowOnly
}

// SearchTerm returns the active search term.
func (d *Dashboard) SearchTerm() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.search
}
