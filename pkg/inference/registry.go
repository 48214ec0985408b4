package inference

import (
	"fmt"
	"sync"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

// Registry maps hook identifiers to hook implementations.
// Descriptors refer to hooks by ID; IDs with no registered hook are ignored.
type Registry struct {
	mu    sync.RWMutex
	hooks map[core.HookID]Hook
	order []core.HookID
}

// NewRegistry creates a registry holding the given hooks.
// Later hooks with a repeated ID replace earlier ones.
func NewRegistry(hooks ...Hook) *Registry {
	r := &Registry{hooks: make(map[core.HookID]Hook, len(hooks))}
	for _, h := range hooks {
		r.put(h)
	}
	return r
}

// BuiltinHooks returns the built-in detection hooks.
func BuiltinHooks() []Hook {
	return []Hook{
		AllowedValuesHook{},
		EmailPatternHook{},
		URLPatternHook{},
		PhonePatternHook{},
		NumericValuesHook{},
	}
}

// DefaultRegistry returns a registry holding the built-in hooks.
func DefaultRegistry() *Registry {
	return NewRegistry(BuiltinHooks()...)
}

// Register adds a hook. Registering an ID twice is an error.
func (r *Registry) Register(h Hook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hooks[h.ID()]; ok {
		return fmt.Errorf("hook %q already registered", h.ID())
	}
	r.put(h)
	return nil
}

func (r *Registry) put(h Hook) {
	if _, ok := r.hooks[h.ID()]; !ok {
		r.order = append(r.order, h.ID())
	}
	r.hooks[h.ID()] = h
}

// Lookup returns the hook registered under id.
func (r *Registry) Lookup(id core.HookID) (Hook, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hooks[id]
	return h, ok
}

// Has reports whether a hook is registered under id.
func (r *Registry) Has(id core.HookID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// Hooks returns the registered hooks in registration order.
func (r *Registry) Hooks() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hooks := make([]Hook, 0, len(r.order))
	for _, id := range r.order {
		hooks = append(hooks, r.hooks[id])
	}
	return hooks
}
