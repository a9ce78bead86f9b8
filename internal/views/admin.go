package views

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

var (
	ErrInvalidInput = errors.New("invalid product input")
	ErrNotEditing   = errors.New("no product selected for update")
	ErrUnknown      = errors.New("unknown product")
)

// ParseProductInput validates the admin form: name and description are
// required, price is a non-negative decimal.
func ParseProductInput(name, price, description string) (models.ProductFields, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return models.ProductFields{}, fmt.Errorf("name is required: %w", ErrInvalidInput)
	}
	if description == "" {
		return models.ProductFields{}, fmt.Errorf("description is required: %w", ErrInvalidInput)
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return models.ProductFields{}, fmt.Errorf("price must be a number: %w", ErrInvalidInput)
	}
	if p < 0 {
		return models.ProductFields{}, fmt.Errorf("price must not be negative: %w", ErrInvalidInput)
	}
	return models.ProductFields{Name: name, Price: p, Description: description}, nil
}

// AdminPanel is the catalog management view.
type AdminPanel struct {
	Guard   *guard.Guard
	Catalog *catalog.Client
	Auth    *auth.Client

	mu       sync.Mutex
	products []models.Product
	editing  *models.Product

	message
}

func (a *AdminPanel) Enter(ctx context.Context) bool {
	a.clear()
	if !a.Guard.Enter(ctx, guard.RouteAdminPanel, guard.AdminOnly) {
		return false
	}
	_ = a.refresh(ctx)
	return true
}

func (a *AdminPanel) Products() []models.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Product, len(a.products))
	copy(out, a.products)
	return out
}

func (a *AdminPanel) Create(ctx context.Context, name, price, description string) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "views.admin_create")
	a.clear()

	fields, err := ParseProductInput(name, price, description)
	if err != nil {
		a.set(err.Error())
		return nil, err
	}
	p, err := a.Catalog.CreateProduct(ctx, fields)
	if err != nil {
		return nil, a.fail(ctx, err)
	}
	l.Info("product_created", "product_id", p.ID)
	_ = a.refresh(ctx)
	return p, nil
}

// BeginEdit keeps a private copy of the product; the listed product is not
// touched until the update succeeds and the list is fetched again.
func (a *AdminPanel) BeginEdit(productID string) (models.Product, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.products {
		if p.ID == productID {
			cp := p
			a.editing = &cp
			return cp, nil
		}
	}
	return models.Product{}, fmt.Errorf("%s: %w", productID, ErrUnknown)
}

func (a *AdminPanel) Editing() (models.Product, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.editing == nil {
		return models.Product{}, false
	}
	return *a.editing, true
}

func (a *AdminPanel) CancelEdit() {
	a.mu.Lock()
	a.editing = nil
	a.mu.Unlock()
}

func (a *AdminPanel) Update(ctx context.Context, name, price, description string) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "views.admin_update")
	a.clear()

	current, ok := a.Editing()
	if !ok {
		a.set(ErrNotEditing.Error())
		return nil, ErrNotEditing
	}
	fields, err := ParseProductInput(name, price, description)
	if err != nil {
		a.set(err.Error())
		return nil, err
	}
	p, err := a.Catalog.UpdateProduct(ctx, current.ID, fields)
	if err != nil {
		return nil, a.fail(ctx, err)
	}
	a.CancelEdit()
	l.Info("product_updated", "product_id", current.ID)
	_ = a.refresh(ctx)
	return p, nil
}

func (a *AdminPanel) Delete(ctx context.Context, productID string) error {
	l := logging.FromContext(ctx).With("svc", "views.admin_delete")
	a.clear()

	if err := a.Catalog.DeleteProduct(ctx, productID); err != nil {
		return a.fail(ctx, err)
	}
	l.Info("product_deleted", "product_id", productID)
	return a.refresh(ctx)
}

func (a *AdminPanel) Logout(ctx context.Context) {
	a.mu.Lock()
	a.products = nil
	a.editing = nil
	a.mu.Unlock()
	a.clear()
	a.Auth.Logout(ctx)
}

func (a *AdminPanel) refresh(ctx context.Context) error {
	products, err := a.Catalog.ListProducts(ctx)
	if err != nil {
		a.set(apiclient.Message(err))
		return err
	}
	a.mu.Lock()
	a.products = products
	a.mu.Unlock()
	return nil
}

func (a *AdminPanel) fail(ctx context.Context, err error) error {
	a.set(apiclient.Message(err))
	a.Guard.HandleUnauthorized(ctx, err)
	return err
}
