package order

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"text/template"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/models"
)

var ErrNotOpen = errors.New("order confirmation is not open")

var checklist = template.Must(template.New("order").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
}).Parse(`Order Successful
Your order has been placed successfully!
Ordered Items:
{{- range $i, $l := .Lines}}
  [x] {{$l.Product.Name}}
      {{$l.Product.Description}}
      Price: {{money $l.Product.Price}}  Quantity: {{$l.Quantity}}  Line total: {{money $l.Total}}
{{- else}}
  No items in your order.
{{- end}}
Total: {{money .Total}}
Placed at: {{.PlacedAt.Format "2006-01-02 15:04:05"}}
`))

// Engine is the part of the cart engine the presenter drives.
type Engine interface {
	PlaceOrder() (models.OrderSnapshot, error)
	IncrementQuantity(productID string) bool
	DecrementQuantity(productID string) bool
}

var _ Engine = (*cart.Engine)(nil)

// Presenter shows a point-in-time copy of the cart as an order confirmation.
// It owns nothing but the visibility flag and the current snapshot.
type Presenter struct {
	Engine Engine

	mu       sync.Mutex
	visible  bool
	snapshot models.OrderSnapshot
}

func NewPresenter(e Engine) *Presenter {
	return &Presenter{Engine: e}
}

// Open is refused with cart.ErrEmptyCart when there is nothing to order.
func (p *Presenter) Open() (models.OrderSnapshot, error) {
	snap, err := p.Engine.PlaceOrder()
	if err != nil {
		return models.OrderSnapshot{}, err
	}
	p.mu.Lock()
	p.visible = true
	p.snapshot = snap
	p.mu.Unlock()
	return snap, nil
}

func (p *Presenter) Increment(productID string) (bool, error) {
	return p.edit(productID, p.Engine.IncrementQuantity)
}

func (p *Presenter) Decrement(productID string) (bool, error) {
	return p.edit(productID, p.Engine.DecrementQuantity)
}

func (p *Presenter) edit(productID string, op func(string) bool) (bool, error) {
	if !p.Visible() {
		return false, ErrNotOpen
	}
	changed := op(productID)
	if !changed {
		return false, nil
	}
	snap, err := p.Engine.PlaceOrder()
	if err != nil {
		return true, err
	}
	p.mu.Lock()
	p.snapshot.Lines = snap.Lines
	p.mu.Unlock()
	return true, nil
}

func (p *Presenter) Close() {
	p.mu.Lock()
	p.visible = false
	p.snapshot = models.OrderSnapshot{}
	p.mu.Unlock()
}

func (p *Presenter) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

func (p *Presenter) Snapshot() models.OrderSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *Presenter) Render(w io.Writer) error {
	if !p.Visible() {
		return ErrNotOpen
	}
	return checklist.Execute(w, p.Snapshot())
}
