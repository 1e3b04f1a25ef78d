package credentials

import "sync"

// Event reports a change of the stored session.
type Event int

const (
	EventTokenSaved Event = iota + 1
	EventProfileSaved
	EventCleared
)

func (e Event) String() string {
	switch e {
	case EventTokenSaved:
		return "token_saved"
	case EventProfileSaved:
		return "profile_saved"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Event)
}

func (s *subscribers) add(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[int]func(Event))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

// notify calls subscribers outside the lock so they may read the store.
func (s *subscribers) notify(e Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
