package fixture

import "sync"

// Store holds the current analysis and notifies subscribers when it changes.
type Store struct {
	mu      sync.RWMutex
	current *Analysis
	version int
	subs    []func(*Analysis)
}

func NewStore(a *Analysis) *Store {
	return &Store{current: a, version: 1}
}

// Current returns the analysis in use. Callers must not mutate it.
func (s *Store) Current() *Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Version increases by one with every Replace.
func (s *Store) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Replace swaps in a new analysis and calls every subscriber with it.
// Subscribers run on the caller's goroutine, outside the store lock.
func (s *Store) Replace(a *Analysis) {
	s.mu.Lock()
	s.current = a
	s.version++
	subs := append([]func(*Analysis)(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(a)
	}
}

// Subscribe registers fn for future replacements.
func (s *Store) Subscribe(fn func(*Analysis)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}
