package session

import (
	"context"

	"github.com/dmitrijs2005/portalauth/internal/client/api"
	"github.com/dmitrijs2005/portalauth/internal/client/credentials"
	"github.com/dmitrijs2005/portalauth/internal/client/models"
	"github.com/dmitrijs2005/portalauth/internal/logging"
)

type State int

const (
	StateInit State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Store is the part of credentials.Store the session package relies on.
type Store interface {
	SaveToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, bool, error)
	SaveUserInfo(ctx context.Context, u *models.UserInfo) error
	UserInfo(ctx context.Context) (*models.UserInfo, error)
	ClearAuth(ctx context.Context) error
	Subscribe(fn func(credentials.Event)) (cancel func())
}

// ProfileFetcher loads the current user's profile from the auth service.
type ProfileFetcher interface {
	GetUserInfo(ctx context.Context) (*models.UserInfo, error)
}

type Orchestrator struct {
	rt    *Runtime
	store Store
	users ProfileFetcher
	log   logging.Logger
}

func NewOrchestrator(rt *Runtime, store Store, users ProfileFetcher, log logging.Logger) *Orchestrator {
	return &Orchestrator{rt: rt, store: store, users: users, log: log.With("component", "session")}
}

// Bootstrap validates the stored session. Only the first call per Runtime
// does any work; later calls just report the current state.
func (o *Orchestrator) Bootstrap(ctx context.Context) State {
	if !o.rt.claimBootstrap() {
		return o.State(ctx)
	}

	_, ok, err := o.store.Token(ctx)
	if err != nil {
		o.log.Error(ctx, "bootstrap: token lookup failed", "error", err)
	}
	if !ok {
		o.clear(ctx, "no token")
		return StateAnonymous
	}

	u, err := o.users.GetUserInfo(ctx)
	if err != nil {
		if api.IsExpired(err) {
			// Already cleared by the normalizer.
			o.log.Info(ctx, "bootstrap: stored session expired")
			return StateAnonymous
		}
		o.log.Warn(ctx, "bootstrap: profile fetch failed", "error", err)
		o.clear(ctx, "profile fetch failed")
		return StateAnonymous
	}

	if err := o.store.SaveUserInfo(ctx, u); err != nil {
		o.log.Error(ctx, "bootstrap: caching profile failed", "error", err)
		o.clear(ctx, "profile not cached")
		return StateAnonymous
	}

	o.log.Info(ctx, "bootstrap: session restored", "email", u.Email)
	return StateAuthenticated
}

func (o *Orchestrator) clear(ctx context.Context, reason string) {
	if err := o.store.ClearAuth(ctx); err != nil {
		o.log.Error(ctx, "clearing session failed", "reason", reason, "error", err)
	}
}

// State derives the state from storage. Authenticated needs both a token and
// a cached profile.
func (o *Orchestrator) State(ctx context.Context) State {
	if !o.rt.Bootstrapped() {
		return StateInit
	}
	if u, _ := o.Profile(ctx); u != nil {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Profile returns the cached profile, but only while a token exists.
func (o *Orchestrator) Profile(ctx context.Context) (*models.UserInfo, error) {
	_, ok, err := o.store.Token(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return o.store.UserInfo(ctx)
}

// Subscribe calls fn with the new state after every store change.
func (o *Orchestrator) Subscribe(fn func(State)) (cancel func()) {
	return o.store.Subscribe(func(credentials.Event) {
		fn(o.State(context.Background()))
	})
}

// SignOut drops the session.
func (o *Orchestrator) SignOut(ctx context.Context) error {
	if err := o.store.ClearAuth(ctx); err != nil {
		o.log.Error(ctx, "sign out failed", "error", err)
		return err
	}
	o.log.Info(ctx, "signed out")
	return nil
}
