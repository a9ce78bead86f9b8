package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const MsgRegistered = "Registration successful! Please login."

var ErrValidation = errors.New("validation")

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type Client struct {
	API     *apiclient.Client
	Session *session.Store
	Nav     guard.Navigator
}

func New(api *apiclient.Client, store *session.Store, nav guard.Navigator) *Client {
	return &Client{API: api, Session: store, Nav: nav}
}

// Login stores the issued credential and returns the route the user lands on.
func (c *Client) Login(ctx context.Context, creds Credentials) (guard.Route, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if err := validate(creds); err != nil {
		return "", err
	}

	var resp loginResponse
	if err := c.API.Do(ctx, http.MethodPost, "/auth/login", "", creds, &resp); err != nil {
		err = rejected(err, "Login failed")
		l.Warn("login_failed", "reason", apiclient.Message(err), "error", err)
		return "", err
	}
	if resp.Token == "" {
		l.Error("login_failed", "status", 200, "reason", "response without token")
		return "", &apiclient.Error{Kind: apiclient.ErrServer, Status: http.StatusOK, Message: "Login failed"}
	}

	role := models.Role(resp.Role)
	if role == "" {
		role = models.RoleUser
	}
	c.Session.Set(ctx, resp.Token, role)

	l.Info("login_successful", "role", string(role))
	return guard.LandingRoute(role), nil
}

// Register returns the message to show on success.
func (c *Client) Register(ctx context.Context, creds Credentials) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validate(creds); err != nil {
		return "", err
	}
	if err := c.API.Do(ctx, http.MethodPost, "/auth/register", "", creds, nil); err != nil {
		err = rejected(err, "Registration failed")
		l.Warn("register_failed", "reason", apiclient.Message(err), "error", err)
		return "", err
	}

	l.Info("register_successful")
	return MsgRegistered, nil
}

func (c *Client) Logout(ctx context.Context) {
	c.Session.Clear(ctx)
	c.Nav.Navigate(ctx, guard.RouteLogin)
	logging.FromContext(ctx).With("svc", "auth.logout").Info("logout_successful")
}

func validate(creds Credentials) error {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return &apiclient.Error{Kind: apiclient.ErrValidation, Message: "Email and password are required", Err: ErrValidation}
	}
	return nil
}

// rejected turns a 401 on an anonymous endpoint into a plain validation error:
// there is no session to expire yet.
func rejected(err error, def string) error {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Kind == apiclient.ErrUnauthorized {
		err = &apiclient.Error{Kind: apiclient.ErrValidation, Status: apiErr.Status, Message: apiErr.Detail, Detail: apiErr.Detail}
	}
	return apiclient.WithMessage(err, def)
}
