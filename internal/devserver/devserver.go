package devserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Skotchmaster/storefront/internal/devserver/events"
	"github.com/Skotchmaster/storefront/internal/devserver/httpserver"
	"github.com/Skotchmaster/storefront/internal/devserver/repo"
	"github.com/Skotchmaster/storefront/internal/devserver/service"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Options struct {
	JWTSecret     []byte
	TokenTTL      time.Duration
	Events        events.Publisher
	Logger        *slog.Logger
	AdminEmail    string
	AdminPassword string
}

// New migrates the schema, seeds the optional admin account and returns an
// echo instance serving the storefront API under /api.
func New(ctx context.Context, db *gorm.DB, opts Options) (*echo.Echo, error) {
	if len(opts.JWTSecret) == 0 {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Events == nil {
		opts.Events = events.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	gormRepo, err := repo.New(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	authSvc := &service.AuthService{
		Repo:      gormRepo,
		JWTSecret: opts.JWTSecret,
		TokenTTL:  opts.TokenTTL,
		Events:    opts.Events,
	}
	if opts.AdminEmail != "" && opts.AdminPassword != "" {
		if err := authSvc.EnsureAdmin(ctx, opts.AdminEmail, opts.AdminPassword); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(loggingmw.RequestLogger(opts.Logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: gormRepo, Events: opts.Events}},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: gormRepo, Events: opts.Events}},
		JWTSecret:      opts.JWTSecret,
	})
	return e, nil
}
