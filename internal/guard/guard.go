package guard

import (
	"context"
	"errors"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type Route string

const (
	RouteLogin         Route = "/"
	RouteRegister      Route = "/register"
	RouteUserDashboard Route = "/user-dashboard"
	RouteAdminPanel    Route = "/admin-panel"
)

type Requirement int

const (
	AnyAuthenticated Requirement = iota
	AdminOnly
)

func (r Requirement) String() string {
	if r == AdminOnly {
		return "admin_only"
	}
	return "any_authenticated"
}

type Navigator interface {
	Navigate(ctx context.Context, route Route)
}

// Allows reports whether s may enter a view protected by req.
func Allows(s models.Session, req Requirement) bool {
	if !s.Authenticated() {
		return false
	}
	switch req {
	case AdminOnly:
		return s.Role == models.RoleAdmin
	default:
		return true
	}
}

// LandingRoute is where a freshly logged-in session starts.
func LandingRoute(role models.Role) Route {
	if role == models.RoleAdmin {
		return RouteAdminPanel
	}
	return RouteUserDashboard
}

type Guard struct {
	Session *session.Store
	Nav     Navigator
}

func New(store *session.Store, nav Navigator) *Guard {
	return &Guard{Session: store, Nav: nav}
}

// Enter returns false and redirects to the login view when the current
// session does not satisfy req. Callers must not fetch anything on false.
func (g *Guard) Enter(ctx context.Context, route Route, req Requirement) bool {
	l := logging.FromContext(ctx).With("svc", "guard.enter", "route", string(route))

	if Allows(g.Session.Current(), req) {
		return true
	}
	l.Info("guard_redirect", "reason", req.String())
	g.Nav.Navigate(ctx, RouteLogin)
	return false
}

// HandleUnauthorized is the single path for auth failures: it clears the
// session and redirects to login. It reports whether err was one.
func (g *Guard) HandleUnauthorized(ctx context.Context, err error) bool {
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	l := logging.FromContext(ctx).With("svc", "guard.unauthorized")
	l.Warn("session_cleared", "status", 401, "reason", apiclient.Message(err))

	g.Session.Clear(ctx)
	g.Nav.Navigate(ctx, RouteLogin)
	return true
}
