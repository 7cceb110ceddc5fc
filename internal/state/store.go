package state

import (
	"sync"
)

// Store is the application state container. Slices mutate it only through
// update; listeners run after every mutation, outside the lock, with their
// own copy of the state. One caller delivers at a time, and it keeps going
// until the last state it delivered is the current one, so a listener never
// ends on a stale snapshot.
type Store struct {
	mu        sync.Mutex
	state     State
	version   uint64
	notifying bool
	listeners map[int]func(State)
	nextID    int
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]func(State))}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn and returns the function that removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// update applies fn under the lock and notifies listeners when fn reports a
// change. Updates made while another caller is delivering are picked up by
// that caller's next round.
func (s *Store) update(fn func(*State) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	s.version++
	if s.notifying {
		s.mu.Unlock()
		return
	}
	s.notifying = true

	for {
		version := s.version
		snapshot := s.state.clone()
		listeners := make([]func(State), 0, len(s.listeners))
		for _, l := range s.listeners {
			listeners = append(listeners, l)
		}
		s.mu.Unlock()

		for _, l := range listeners {
			l(snapshot.clone())
		}

		s.mu.Lock()
		if s.version == version {
			s.notifying = false
			s.mu.Unlock()
			return
		}
	}
}
