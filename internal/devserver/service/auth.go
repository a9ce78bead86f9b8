package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/devserver/events"
	"github.com/Skotchmaster/storefront/internal/devserver/models"
	"github.com/Skotchmaster/storefront/internal/devserver/repo"
	pkg_hash "github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	Events    events.Publisher
}

type LoginResult struct {
	Token     string
	Role      string
	ExpiresAt time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("email is not valid: %w", ErrValidation)
	}
	return nil
}

func (h *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")
	email = normalizeEmail(email)

	if err := validateCredentials(email, password); err != nil {
		l.Warn("register_error", "status", 400, "reason", err.Error())
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Role:         RoleUser,
	}

	if err := h.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("user already exist: %w", ErrConflict)
		}
		l.Error("register_error", "status", 500, "reason", "internal server error", "error", err)
		return nil, err
	}

	publish(ctx, h.Events, events.TopicUsers, user.ID.String(), events.UserEvent{
		Type: "user_registered", UserID: user.ID.String(), Email: user.Email,
	})
	l.Info("register_successful", "user_id", user.ID.String())
	return &user, nil
}

func (h *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	user, err := h.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	exp := time.Now().Add(h.TokenTTL)
	token, err := tokens.NewAccessToken(user.ID.String(), user.Email, user.Role, exp, h.JWTSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	publish(ctx, h.Events, events.TopicUsers, user.ID.String(), events.UserEvent{
		Type: "user_logged_in", UserID: user.ID.String(), Email: user.Email,
	})
	l.Info("login_successful", "role", user.Role)
	return &LoginResult{Token: token, Role: user.Role, ExpiresAt: exp}, nil
}

// EnsureAdmin creates the admin account or promotes an existing one.
func (h *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.ensure_admin")
	email = normalizeEmail(email)

	if err := validateCredentials(email, password); err != nil {
		return err
	}
	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{Email: email, PasswordHash: pwHash, Role: RoleAdmin}
	err = h.Repo.CreateUserIfNotExists(ctx, &user)
	if errors.Is(err, repo.ErrUserAlreadyExist) {
		err = h.Repo.PromoteUser(ctx, email, RoleAdmin, pwHash)
	}
	if err != nil {
		l.Error("admin_seed_failed", "error", err)
		return err
	}
	l.Info("admin_seeded", "email", email)
	return nil
}
