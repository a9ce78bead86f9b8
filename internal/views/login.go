package views

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

type LoginView struct {
	Auth *auth.Client
	Nav  guard.Navigator

	message
}

func (v *LoginView) Submit(ctx context.Context, email, password string) error {
	v.clear()
	route, err := v.Auth.Login(ctx, auth.Credentials{Email: email, Password: password})
	if err != nil {
		v.set(apiclient.Message(err))
		return err
	}
	v.Nav.Navigate(ctx, route)
	return nil
}

func (v *LoginView) GoRegister(ctx context.Context) {
	v.clear()
	v.Nav.Navigate(ctx, guard.RouteRegister)
}

type RegisterView struct {
	Auth *auth.Client
	Nav  guard.Navigator

	message
}

// Submit leaves the user on the register view with the success message;
// logging in is a separate step.
func (v *RegisterView) Submit(ctx context.Context, email, password string) error {
	v.clear()
	msg, err := v.Auth.Register(ctx, auth.Credentials{Email: email, Password: password})
	if err != nil {
		v.set(apiclient.Message(err))
		return err
	}
	v.set(msg)
	return nil
}

func (v *RegisterView) GoLogin(ctx context.Context) {
	v.clear()
	v.Nav.Navigate(ctx, guard.RouteLogin)
}
