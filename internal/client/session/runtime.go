package session

import (
	"sync"
	"sync/atomic"
)

// Runtime holds the process-wide one-shot latches. Create one at start-up
// and pass it to the components that need it.
type Runtime struct {
	bootstrapped atomic.Bool
	bannerShown  atomic.Bool

	mu        sync.Mutex
	exchanged map[string]struct{}
}

func NewRuntime() *Runtime {
	return &Runtime{exchanged: make(map[string]struct{})}
}

// Reset re-arms every latch.
func (r *Runtime) Reset() {
	r.bootstrapped.Store(false)
	r.bannerShown.Store(false)

	r.mu.Lock()
	r.exchanged = make(map[string]struct{})
	r.mu.Unlock()
}

func (r *Runtime) claimBootstrap() bool {
	return r.bootstrapped.CompareAndSwap(false, true)
}

// claimOAuthExchange returns true the first time a given code/state pair is
// seen. A pair stays claimed whatever the outcome of its exchange.
func (r *Runtime) claimOAuthExchange(code, state string) bool {
	key := code + "\x00" + state

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.exchanged == nil {
		r.exchanged = make(map[string]struct{})
	}
	if _, ok := r.exchanged[key]; ok {
		return false
	}
	r.exchanged[key] = struct{}{}
	return true
}

// Bootstrapped reports whether Bootstrap has run.
func (r *Runtime) Bootstrapped() bool {
	return r.bootstrapped.Load()
}

// ClaimBanner returns true exactly once per Runtime lifetime.
func (r *Runtime) ClaimBanner() bool {
	return r.bannerShown.CompareAndSwap(false, true)
}
