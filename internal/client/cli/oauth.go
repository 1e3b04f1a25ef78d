package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/portalauth/internal/client/session"
)

var errUsage = errors.New("missing argument")

// Google prints the Google authorize URL. The browser comes back to the
// callback path, whose full URL is then passed to the callback command.
func (a *App) Google(ctx context.Context) error {
	u, err := a.oauth.BeginGoogle(ctx)
	if err != nil {
		return err
	}
	printlnFn("Open this URL in a browser and paste the callback URL with `callback <url>`:")
	printlnFn(u)
	return nil
}

func (a *App) Callback(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	next, err := a.oauth.Handle(ctx, args[0])
	if err != nil {
		return err
	}
	a.captcha.Reset()
	printlnFn("Signed in with Google, continuing to " + next)
	return nil
}

// Authorize requests an authorization code for another portal client.
func (a *App) Authorize(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	code, ok, err := a.auth.AuthorizeClient(ctx, args[0])
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("No authorization code issued.")
		return nil
	}
	printlnFn("Authorization code: " + code)
	return nil
}

// Open handles a navigation to url. A ?logon=1 marker opens the sign-in
// prompt once and is stripped from the address.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cleaned, triggered := session.ConsumeLogonTrigger(args[0])
	printlnFn("Location: " + cleaned)
	if !triggered || a.isLoggedIn(ctx) {
		return nil
	}
	return a.Login(ctx)
}
