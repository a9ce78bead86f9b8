package views

import (
	"context"
	"sync"

	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// Router tracks the active view. It is the guard's Navigator.
type Router struct {
	mu      sync.Mutex
	current guard.Route
}

func NewRouter() *Router {
	return &Router{current: guard.RouteLogin}
}

func (r *Router) Navigate(ctx context.Context, route guard.Route) {
	r.mu.Lock()
	from := r.current
	r.current = route
	r.mu.Unlock()

	if from != route {
		logging.FromContext(ctx).Debug("navigate", "from", string(from), "to", string(route))
	}
}

func (r *Router) Current() guard.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
