package component

import (
	"fmt"
	"sync"

	"github.com/kbukum/appkit/errors"
)

// Registry collects factories in registration order. Keys are unique. It
// is drained once, by the orchestrator, when startup begins.
type Registry struct {
	mu      sync.Mutex
	entries []Factory
	index   map[Key]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[Key]struct{})}
}

// Add appends f. A key that is already registered is a
// DUPLICATE_COMPONENT error and leaves the registry unchanged.
func (r *Registry) Add(f Factory) error {
	if f.Constructor == nil {
		return errors.New(errors.ErrCodeInternal, fmt.Sprintf("factory %s has no constructor", f.Key))
	}
	f.Key = f.Key.normalized()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[f.Key]; exists {
		return errors.DuplicateComponent(f.Key.TypeName(), f.Key.Label)
	}
	r.index[f.Key] = struct{}{}
	r.entries = append(r.entries, f)
	return nil
}

// MustAdd is Add that panics on error. Registration happens at program
// setup, where a duplicate is a programming error.
func (r *Registry) MustAdd(f Factory) {
	if err := r.Add(f); err != nil {
		panic(err)
	}
}

// IsRegistered reports whether key has a factory.
func (r *Registry) IsRegistered(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.index[key.normalized()]
	return ok
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]Key, len(r.entries))
	for i, f := range r.entries {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of registered factories.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// TakeAll hands over every factory in registration order together with
// the key index and leaves the registry empty.
func (r *Registry) TakeAll() ([]Factory, map[Key]struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, index := r.entries, r.index
	r.entries = nil
	r.index = make(map[Key]struct{})
	if entries == nil {
		entries = []Factory{}
	}
	return entries, index
}
