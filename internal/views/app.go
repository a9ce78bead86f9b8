package views

import (
	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/order"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

// App wires every view around one session store and one cart engine.
type App struct {
	Router    *Router
	Session   *session.Store
	Guard     *guard.Guard
	Cart      *cart.Engine
	Login     *LoginView
	Register  *RegisterView
	Dashboard *Dashboard
	Admin     *AdminPanel
}

func NewApp(api *apiclient.Client, store *session.Store) *App {
	router := NewRouter()
	g := guard.New(store, router)
	authClient := auth.New(api, store, router)
	catalogClient := catalog.New(api, store)
	engine := cart.NewEngine(&cart.HTTPRemote{API: api}, store, g)
	presenter := order.NewPresenter(engine)
	store.OnChange(func(next models.Session) {
		if !next.Authenticated() {
			presenter.Close()
		}
	})

	return &App{
		Router:   router,
		Session:  store,
		Guard:    g,
		Cart:     engine,
		Login:    &LoginView{Auth: authClient, Nav: router},
		Register: &RegisterView{Auth: authClient, Nav: router},
		Dashboard: &Dashboard{
			Guard:   g,
			Catalog: catalogClient,
			Cart:    engine,
			Order:   presenter,
			Auth:    authClient,
		},
		Admin: &AdminPanel{Guard: g, Catalog: catalogClient, Auth: authClient},
	}
}
