// Package api contains the stateless resource clients for the inventory
// backend. Each service maps one backend collection's operations onto HTTP
// requests; all entities here are transient server-owned copies.
package api

import "time"

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// Role is a user's authorization level.
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// MasterAdminEmail identifies the built-in administrator account. Its login
// identifier is not an email address and its role cannot be changed.
const MasterAdminEmail = "admin"

// Product as served by the backend. Stock is mutated only through stock
// movements once the product exists.
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	MinStock    int       `json:"min_stock"`
	ImageURL    string    `json:"image_url"`
	SupplierID  int64     `json:"supplier_id"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Supplier    *Supplier `json:"supplier,omitempty"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LowStock reports whether the product is below its configured minimum.
func (p Product) LowStock() bool {
	return p.Stock < p.MinStock
}

// Supplier is referenced weakly by products; deleting one does not cascade.
type Supplier struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// Category is an optional product tag.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StockMovement is an append-only audit record of one stock update.
// StockAfter is server-computed truth; the client never constructs it.
type StockMovement struct {
	ID          int64        `json:"id"`
	ProductID   int64        `json:"product_id"`
	Type        MovementType `json:"type"`
	Quantity    int          `json:"quantity"`
	Note        string       `json:"note"`
	StockBefore int          `json:"stock_before"`
	StockAfter  int          `json:"stock_after"`
	CreatedAt   time.Time    `json:"created_at"`
}

// User as served by the admin endpoints. IsActive gates login until an
// administrator approves the account.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// IsMasterAdmin reports whether this is the built-in administrator.
func (u User) IsMasterAdmin() bool {
	return u.Email == MasterAdminEmail
}

// ActivityAction is the kind of change recorded in an activity log entry.
type ActivityAction string

const (
	ActionCreate ActivityAction = "CREATE"
	ActionUpdate ActivityAction = "UPDATE"
	ActionDelete ActivityAction = "DELETE"
)

// ActivityLogEntry is a read-only audit record of a user action.
type ActivityLogEntry struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	User      User           `json:"user"`
	Action    ActivityAction `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  int64          `json:"entity_id"`
	Details   string         `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

// Pagination is the page metadata attached to list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
