package repository

import "sync"

// Sequence hands out identifiers for one entity kind. Each call to Next
// returns the highest identifier issued so far plus one, so the first
// identifier is 1 and no identifier is ever handed out twice.
type Sequence struct {
	mu  sync.Mutex
	max int64
}

// NewSequence returns a sequence that starts at 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next reserves and returns the next identifier.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.max++
	return s.max
}

// Observe records an identifier that was assigned elsewhere (for example
// when seeding a store) so that Next never returns it.
func (s *Sequence) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.max {
		s.max = id
	}
}

// Current returns the highest identifier issued or observed so far.
func (s *Sequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}
