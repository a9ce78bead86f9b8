package views_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/devserver"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/views"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	adminEmail    = "admin@shop.io"
	adminPassword = "Admin123"
)

type testEnv struct {
	api *apiclient.Client
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvTTL(t, 0)
}

// newTestEnvTTL issues tokens that expire after ttl (zero keeps the default).
func newTestEnvTTL(t *testing.T, ttl time.Duration) *testEnv {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	gdb, err := db.Open(ctx, filepath.Join(dir, "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	e, err := devserver.New(ctx, gdb, devserver.Options{
		JWTSecret:     []byte("test-jwt-secret"),
		TokenTTL:      ttl,
		Logger:        logging.Discard(),
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &testEnv{api: apiclient.NewClient(srv.URL+"/api", 5*time.Second), dir: dir}
}

// newApp starts a client with its own persisted session file.
func (env *testEnv) newApp(t *testing.T, name string) *views.App {
	t.Helper()
	gdb, err := db.Open(context.Background(), filepath.Join(env.dir, name+".db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	storage, err := session.NewGormStorage(gdb)
	require.NoError(t, err)
	store, err := session.NewStore(context.Background(), storage)
	require.NoError(t, err)
	return views.NewApp(env.api, store)
}

func (env *testEnv) registerAndLogin(t *testing.T, app *views.App, email, password string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, app.Register.Submit(ctx, email, password))
	assert.NotEmpty(t, app.Register.Message())
	require.NoError(t, app.Login.Submit(ctx, email, password))
}

func (env *testEnv) seedProduct(t *testing.T, name, price string) models.Product {
	t.Helper()
	ctx := context.Background()
	admin := env.newApp(t, "seed-"+name)
	require.NoError(t, admin.Login.Submit(ctx, adminEmail, adminPassword))
	require.True(t, admin.Admin.Enter(ctx))
	p, err := admin.Admin.Create(ctx, name, price, name+" description")
	require.NoError(t, err)
	return *p
}

func TestUserLoginLandsOnDashboard(t *testing.T) {
	env := newTestEnv(t)
	app := env.newApp(t, "client")
	ctx := context.Background()

	env.registerAndLogin(t, app, "u@x.io", "pw")
	assert.Equal(t, guard.RouteUserDashboard, app.Router.Current())
	assert.Equal(t, models.RoleUser, app.Session.Current().Role)
	assert.True(t, app.Session.IsAuthenticated())

	// a regular user is bounced off the admin panel but stays signed in
	assert.False(t, app.Admin.Enter(ctx))
	assert.Equal(t, guard.RouteLogin, app.Router.Current())
	assert.True(t, app.Session.IsAuthenticated())

	// the session survives a restart
	again := env.newApp(t, "client")
	assert.True(t, again.Session.IsAuthenticated())
	assert.Equal(t, models.RoleUser, again.Session.Current().Role)
}

func TestLoginFailureKeepsUserOnLogin(t *testing.T) {
	env := newTestEnv(t)
	app := env.newApp(t, "client")
	ctx := context.Background()

	err := app.Login.Submit(ctx, "nobody@x.io", "pw")
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", app.Login.Message())
	assert.False(t, app.Session.IsAuthenticated())
	assert.Equal(t, guard.RouteLogin, app.Router.Current())

	err = app.Login.Submit(ctx, "", "")
	require.Error(t, err)
	assert.False(t, app.Session.IsAuthenticated())
}

func TestProductsListedWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Lamp", "12.50")

	app := env.newApp(t, "anon")
	products, err := app.Admin.Catalog.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
	assert.Equal(t, 12.5, products[0].Price)
}

func TestAddToCartShowsServerLine(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.seedProduct(t, "Lamp", "10")
	app := env.newApp(t, "client")
	ctx := context.Background()

	env.registerAndLogin(t, app, "u@x.io", "pw")
	require.True(t, app.Dashboard.Enter(ctx))
	assert.Empty(t, app.Dashboard.Message())
	assert.Len(t, app.Dashboard.Products(), 1)
	assert.Empty(t, app.Dashboard.Lines())

	require.NoError(t, app.Dashboard.AddToCart(ctx, p1.ID))
	lines := app.Dashboard.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, p1.ID, lines[0].Product.ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.True(t, lines[0].ServerConfirmed)
	assert.Equal(t, cart.StateReady, app.Cart.State())

	require.NoError(t, app.Dashboard.RemoveFromCart(ctx, p1.ID))
	assert.Empty(t, app.Dashboard.Lines())
}

func TestLocalQuantityIsDiscardedOnFetch(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.seedProduct(t, "Lamp", "10")
	app := env.newApp(t, "client")
	ctx := context.Background()

	env.registerAndLogin(t, app, "u@x.io", "pw")
	require.True(t, app.Dashboard.Enter(ctx))
	require.NoError(t, app.Dashboard.AddToCart(ctx, p1.ID))

	snap, err := app.Dashboard.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, snap.Total())

	for i := 0; i < 2; i++ {
		ok, err := app.Dashboard.Increment(p1.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 3, app.Dashboard.Lines()[0].Quantity)
	assert.Equal(t, 30.0, app.Dashboard.Order.Snapshot().Total())
	assert.Equal(t, cart.StateLocallyModified, app.Cart.State())

	require.NoError(t, app.Cart.FetchCart(ctx))
	lines := app.Dashboard.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestAdminManagesCatalog(t *testing.T) {
	env := newTestEnv(t)
	app := env.newApp(t, "admin")
	ctx := context.Background()

	require.NoError(t, app.Login.Submit(ctx, adminEmail, adminPassword))
	assert.Equal(t, guard.RouteAdminPanel, app.Router.Current())
	require.True(t, app.Admin.Enter(ctx))

	_, err := app.Admin.Create(ctx, "X", "-1", "d")
	assert.ErrorIs(t, err, views.ErrInvalidInput)

	created, err := app.Admin.Create(ctx, "X", "9.99", "d")
	require.NoError(t, err)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, adminEmail, created.CreatedBy.Email)
	require.Len(t, app.Admin.Products(), 1)

	_, err = app.Admin.BeginEdit(created.ID)
	require.NoError(t, err)
	updated, err := app.Admin.Update(ctx, "X2", "5", "d2")
	require.NoError(t, err)
	assert.Equal(t, "X2", updated.Name)
	_, editing := app.Admin.Editing()
	assert.False(t, editing)
	assert.Equal(t, "X2", app.Admin.Products()[0].Name)

	require.NoError(t, app.Admin.Delete(ctx, created.ID))
	assert.Empty(t, app.Admin.Products())
}

func TestUnauthorizedClearsSession(t *testing.T) {
	env := newTestEnv(t)
	app := env.newApp(t, "client")
	ctx := context.Background()

	app.Session.Set(ctx, "not-a-valid-token", models.RoleUser)
	require.True(t, app.Dashboard.Enter(ctx))

	assert.False(t, app.Session.IsAuthenticated())
	assert.Equal(t, guard.RouteLogin, app.Router.Current())
	assert.Equal(t, apiclient.MsgSessionExpired, app.Dashboard.Message())

	again := env.newApp(t, "client")
	assert.False(t, again.Session.IsAuthenticated())
}

func TestPlaceOrderOnEmptyCartIsRefused(t *testing.T) {
	env := newTestEnv(t)
	app := env.newApp(t, "client")
	ctx := context.Background()

	env.registerAndLogin(t, app, "u@x.io", "pw")
	require.True(t, app.Dashboard.Enter(ctx))

	_, err := app.Dashboard.PlaceOrder(ctx)
	assert.ErrorIs(t, err, cart.ErrEmptyCart)
	assert.Equal(t, views.MsgCartEmpty, app.Dashboard.Message())
	assert.False(t, app.Dashboard.Order.Visible())
}

func TestLogoutReturnsToLogin(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.seedProduct(t, "Lamp", "10")
	app := env.newApp(t, "client")
	ctx := context.Background()

	env.registerAndLogin(t, app, "u@x.io", "pw")
	require.True(t, app.Dashboard.Enter(ctx))
	require.NoError(t, app.Dashboard.AddToCart(ctx, p1.ID))

	app.Dashboard.Logout(ctx)
	assert.False(t, app.Session.IsAuthenticated())
	assert.Equal(t, guard.RouteLogin, app.Router.Current())
	assert.Empty(t, app.Cart.Lines())

	assert.False(t, app.Dashboard.Enter(ctx))
	assert.Equal(t, guard.RouteLogin, app.Router.Current())
}

func TestExpiredSessionDoesNotLeakCart(t *testing.T) {
	env := newTestEnvTTL(t, 3*time.Second)
	widget := env.seedProduct(t, "Widget", "3")
	app := env.newApp(t, "client")
	ctx := context.Background()

	env.registerAndLogin(t, app, "a@x.io", "pw")
	require.True(t, app.Dashboard.Enter(ctx))
	require.NoError(t, app.Dashboard.AddToCart(ctx, widget.ID))
	_, err := app.Dashboard.PlaceOrder(ctx)
	require.NoError(t, err)
	require.True(t, app.Dashboard.Order.Visible())

	// token expiry is second-granular
	time.Sleep(3500 * time.Millisecond)

	err = app.Dashboard.AddToCart(ctx, widget.ID)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.False(t, app.Session.IsAuthenticated())
	assert.Equal(t, guard.RouteLogin, app.Router.Current())
	assert.Empty(t, app.Dashboard.Lines())
	assert.False(t, app.Dashboard.Order.Visible())

	_, err = app.Dashboard.PlaceOrder(ctx)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Equal(t, apiclient.MsgNoToken, app.Dashboard.Message())

	env.registerAndLogin(t, app, "b@x.io", "pw")
	assert.Empty(t, app.Dashboard.Lines())
	assert.Equal(t, cart.StateEmpty, app.Cart.State())

	require.True(t, app.Dashboard.Enter(ctx))
	assert.Empty(t, app.Dashboard.Lines())
}
