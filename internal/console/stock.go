package console

import (
	"context"
	"strconv"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// StockUpdater is the slice of the product client the form submits through.
type StockUpdater interface {
	UpdateStock(ctx context.Context, id int64, update api.StockUpdate) (api.StockResult, error)
}

// FormState is the stock form's lifecycle. There are only two states; the
// only escape from idle is submitting or closing the form.
type FormState int

const (
	FormIdle FormState = iota
	FormSubmitting
)

// StockForm collects one stock movement: a direction, a positive integer
// quantity and an optional note. It previews the resulting balance locally
// but submits only the direction, quantity and note; the server computes
// the authoritative result.
type StockForm struct {
	products  StockUpdater
	notifier  Notifier
	onSuccess func()

	product   api.Product
	direction api.MovementType
	quantity  string
	note      string
	state     FormState
}

// NewStockForm opens a form against the given product. Direction defaults
// to stock-in. onSuccess runs after a successful submit so the dashboard
// can re-fetch.
func NewStockForm(product api.Product, products StockUpdater, notifier Notifier, onSuccess func()) *StockForm {
	return &StockForm{
		products:  products,
		notifier:  notifier,
		onSuccess: onSuccess,
		product:   product,
		direction: api.MovementIn,
	}
}

// SetDirection switches between stock-in and stock-out.
func (f *StockForm) SetDirection(direction api.MovementType) {
	if direction == api.MovementIn || direction == api.MovementOut {
		f.direction = direction
	}
}

// SetQuantity stores the raw quantity input; validation happens on submit.
func (f *StockForm) SetQuantity(raw string) { f.quantity = raw }

// SetNote stores the optional free-text note.
func (f *StockForm) SetNote(note string) { f.note = note }

// Direction returns the selected movement direction.
func (f *StockForm) Direction() api.MovementType { return f.direction }

// State returns the form's lifecycle state.
func (f *StockForm) State() FormState { return f.state }

// Quantity parses the entered quantity. Non-numeric or non-positive input
// is a ValidationError and blocks submission before any network call.
func (f *StockForm) Quantity() (int, error) {
	qty, err := strconv.Atoi(f.quantity)
	if err != nil {
		return 0, &httpx.ValidationError{Field: "quantity", Message: "Quantity must be a number"}
	}
	if qty <= 0 {
		return 0, &httpx.ValidationError{Field: "quantity", Message: "Quantity must be a positive number"}
	}
	return qty, nil
}

// Projection computes the balance the movement would produce. It is for
// display only and is never sent to the server. A stock-out larger than the
// current stock projects negative and still submits; acceptance is the
// server's decision. ok is false while the quantity input is invalid.
func (f *StockForm) Projection() (projected int, ok bool) {
	qty, err := f.Quantity()
	if err != nil {
		return 0, false
	}
	if f.direction == api.MovementIn {
		return f.product.Stock + qty, true
	}
	return f.product.Stock - qty, true
}

// Submit sends the movement. It reports true when the submission succeeded
// and the form should close. On failure the error message is surfaced as a
// blocking alert and every entered value stays intact for a retry.
func (f *StockForm) Submit(ctx context.Context) bool {
	if f.state == FormSubmitting {
		return false
	}
	qty, err := f.Quantity()
	if err != nil {
		f.notifier.Alert(httpx.Message(err, "Invalid quantity"))
		return false
	}

	f.state = FormSubmitting
	_, err = f.products.UpdateStock(ctx, f.product.ID, api.StockUpdate{
		Type:     f.direction,
		Quantity: qty,
		Note:     f.note,
	})
	f.state = FormIdle
	if err != nil {
		f.notifier.Alert(httpx.Message(err, "Failed to update stock"))
		return false
	}
	if f.onSuccess != nil {
		f.onSuccess()
	}
	return true
}
