package oauth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// StateStore issues single-use OAuth state values that expire after ttl.
type StateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]time.Time
	now    func() time.Time
}

func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{ttl: ttl, states: make(map[string]time.Time), now: time.Now}
}

func (s *StateStore) Issue() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}

	state := uuid.NewString()
	s.states[state] = now.Add(s.ttl)
	return state
}

// Consume reports whether state was issued and is still fresh. A state can
// be consumed once.
func (s *StateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return !s.now().After(exp)
}
