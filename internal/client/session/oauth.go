package session

import (
	"context"
	"errors"
	"net/url"

	"github.com/dmitrijs2005/portalauth/internal/client/api"
	"github.com/dmitrijs2005/portalauth/internal/client/services"
	"github.com/dmitrijs2005/portalauth/internal/logging"
)

// CallbackPath is where the auth service sends the browser back after Google.
const CallbackPath = "/oauth/callback/google"

// RootPath is the redirect target after a successful exchange.
const RootPath = "/"

var ErrAlreadyExchanged = errors.New("oauth callback already handled")

// OAuthCallback exchanges a Google redirect for a session, once per redirect.
type OAuthCallback struct {
	rt       *Runtime
	auth     services.AuthService
	store    Store
	clientID string
	log      logging.Logger
}

func NewOAuthCallback(rt *Runtime, auth services.AuthService, store Store, clientID string, log logging.Logger) *OAuthCallback {
	return &OAuthCallback{rt: rt, auth: auth, store: store, clientID: clientID, log: log.With("component", "oauth_callback")}
}

// BeginGoogle returns the URL the user has to open to sign in with Google.
func (c *OAuthCallback) BeginGoogle(ctx context.Context) (string, error) {
	return c.auth.GoogleOAuthURL(ctx)
}

// Handle exchanges the code and state carried by callbackURL. Each code/state
// pair is exchanged at most once per Runtime: landing on the same callback
// again returns ErrAlreadyExchanged without touching the network, while a new
// redirect from BeginGoogle carries a new pair and is exchanged normally.
// On success the token and profile are stored and RootPath is returned. On
// failure nothing is stored.
func (c *OAuthCallback) Handle(ctx context.Context, callbackURL string) (string, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return "", &api.ValidationError{Field: "url", Reason: "is not a valid URL"}
	}
	q := u.Query()
	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		return "", &api.ValidationError{Field: "url", Reason: "has no code and state"}
	}

	if !c.rt.claimOAuthExchange(code, state) {
		return "", ErrAlreadyExchanged
	}

	token, err := c.auth.LoginWithGoogleCallback(ctx, c.clientID, code, state)
	if err != nil {
		return "", err
	}

	if _, err := establish(ctx, c.store, c.auth, c.log, token); err != nil {
		return "", err
	}
	return RootPath, nil
}
