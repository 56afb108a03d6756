package component

import (
	"sync"

	"github.com/kbukum/appkit/errors"
)

// Store holds live components keyed by Key and remembers insertion order.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	order   []Key
	handles map[Key]*Handle
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{handles: make(map[Key]*Handle)}
}

// Insert adds h. A second handle under the same key is rejected.
func (s *Store) Insert(h *Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.handles[h.key]; exists {
		return errors.DuplicateComponent(h.key.TypeName(), h.key.Label)
	}
	s.handles[h.key] = h
	s.order = append(s.order, h.key)
	return nil
}

// Handle returns the handle stored under key.
func (s *Store) Handle(key Key) (*Handle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handles[key.normalized()]
	return h, ok
}

// Keys returns the stored keys in insertion order.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]Key, len(s.order))
	copy(keys, s.order)
	return keys
}

// Handles returns the stored handles in insertion order.
func (s *Store) Handles() []*Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Handle, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.handles[k])
	}
	return out
}

// Len returns the number of stored components.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Remove deletes and returns the handle under key.
func (s *Store) Remove(key Key) (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key = key.normalized()
	h, ok := s.handles[key]
	if !ok {
		return nil, false
	}
	delete(s.handles, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return h, true
}

// Clear removes every component.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.handles = make(map[Key]*Handle)
}
