package views

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/order"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const MsgCartEmpty = "Your cart is empty."

// Dashboard is the user view: catalog, cart and the order confirmation.
type Dashboard struct {
	Guard   *guard.Guard
	Catalog *catalog.Client
	Cart    *cart.Engine
	Order   *order.Presenter
	Auth    *auth.Client

	mu       sync.Mutex
	products []models.Product

	message
}

// Enter loads the catalog and the cart side by side. It returns false when
// the guard redirected away; nothing is fetched in that case.
func (d *Dashboard) Enter(ctx context.Context) bool {
	l := logging.FromContext(ctx).With("svc", "views.dashboard")
	d.clear()

	if !d.Guard.Enter(ctx, guard.RouteUserDashboard, guard.AnyAuthenticated) {
		return false
	}

	var g errgroup.Group
	g.Go(func() error { return d.loadProducts(ctx) })
	g.Go(func() error { return d.Cart.FetchCart(ctx) })
	if err := g.Wait(); err != nil {
		l.Warn("dashboard_load_incomplete", "error", err)
		d.set(apiclient.Message(err))
	}
	return true
}

func (d *Dashboard) Products() []models.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Product, len(d.products))
	copy(out, d.products)
	return out
}

func (d *Dashboard) Lines() []models.CartLine { return d.Cart.Lines() }

func (d *Dashboard) AddToCart(ctx context.Context, productID string) error {
	d.clear()
	return d.record(d.Cart.AddToCart(ctx, productID))
}

func (d *Dashboard) RemoveFromCart(ctx context.Context, productID string) error {
	d.clear()
	return d.record(d.Cart.RemoveFromCart(ctx, productID))
}

// PlaceOrder opens the order confirmation; unavailable for an empty cart.
func (d *Dashboard) PlaceOrder(ctx context.Context) (models.OrderSnapshot, error) {
	d.clear()
	snap, err := d.Order.Open()
	if errors.Is(err, cart.ErrEmptyCart) {
		d.set(MsgCartEmpty)
		return snap, err
	}
	if err != nil {
		d.set(apiclient.Message(err))
		d.Guard.HandleUnauthorized(ctx, err)
		return snap, err
	}
	logging.FromContext(ctx).With("svc", "views.dashboard").Info("order_placed", "lines", len(snap.Lines))
	return snap, nil
}

func (d *Dashboard) Increment(productID string) (bool, error) { return d.Order.Increment(productID) }

func (d *Dashboard) Decrement(productID string) (bool, error) { return d.Order.Decrement(productID) }

func (d *Dashboard) CloseOrder() { d.Order.Close() }

func (d *Dashboard) Logout(ctx context.Context) {
	d.Order.Close()
	d.Cart.Reset()
	d.mu.Lock()
	d.products = nil
	d.mu.Unlock()
	d.clear()
	d.Auth.Logout(ctx)
}

func (d *Dashboard) loadProducts(ctx context.Context) error {
	products, err := d.Catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.products = products
	d.mu.Unlock()
	return nil
}

func (d *Dashboard) record(err error) error {
	if err != nil {
		d.set(apiclient.Message(err))
	}
	return err
}
