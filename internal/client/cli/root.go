package cli

import (
	"bufio"
	"context"
	"os"
	"sync"

	"github.com/dmitrijs2005/portalauth/internal/client/session"
)

// Root restores the stored session, then runs the REPL until the user exits
// or ctx is cancelled.
func (a *App) Root(ctx context.Context) {
	state := a.session.Bootstrap(ctx)
	a.greet(ctx, state)

	cancel := a.watchSession(ctx)
	defer cancel()

	statusFn := func() string {
		if a.isLoggedIn(ctx) {
			return "signed in"
		}
		return "guest"
	}

	runREPL(ctx, a, statusFn, bufio.NewScanner(os.Stdin))
}

func (a *App) greet(ctx context.Context, state session.State) {
	if state != session.StateAuthenticated {
		printlnFn("Welcome! Type `login` to sign in or `help` for commands.")
		return
	}
	// once per process, not once per bootstrap
	if a.rt != nil && !a.rt.ClaimBanner() {
		return
	}
	if u, err := a.session.Profile(ctx); err == nil && u != nil {
		printlnFn("Welcome back, " + u.DisplayName())
	}
}

// watchSession reports a sign-out that happens outside a command, e.g. an
// expired token dropped by a protected call or a sibling clearing the store.
func (a *App) watchSession(ctx context.Context) (cancel func()) {
	var mu sync.Mutex
	last := a.session.State(ctx)
	return a.session.Subscribe(func(s session.State) {
		mu.Lock()
		defer mu.Unlock()
		if last == session.StateAuthenticated && s == session.StateAnonymous {
			a.log.Info(ctx, "session ended")
		}
		last = s
	})
}
