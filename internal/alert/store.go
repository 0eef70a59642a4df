package alert

import "sync"

// StateStore holds at most one State per Type. All access is serialized;
// Snapshot returns copies.
type StateStore struct {
	mu     sync.RWMutex
	states map[Type]*State
}

func NewStateStore() *StateStore {
	return &StateStore{states: make(map[Type]*State)}
}

// Upsert runs fn on the state for t, creating a zero entry first if needed.
func (s *StateStore) Upsert(t Type, fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[t]
	if !ok {
		st = &State{Type: t}
		s.states[t] = st
	}
	fn(st)
}

// Update runs fn on an existing state. It returns false, without calling fn,
// when t has no entry.
func (s *StateStore) Update(t Type, fn func(st *State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[t]
	if !ok {
		return false
	}
	fn(st)

	return true
}

func (s *StateStore) Get(t Type) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[t]
	if !ok {
		return State{}, false
	}

	return *st, true
}

func (s *StateStore) Remove(t Type) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, t)
}

func (s *StateStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states = make(map[Type]*State)
}

func (s *StateStore) Snapshot() map[Type]State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Type]State, len(s.states))
	for t, st := range s.states {
		out[t] = *st
	}

	return out
}

func (s *StateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.states)
}
