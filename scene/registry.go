package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownScene is returned by Registry.Get for unregistered names.
	ErrUnknownScene = errors.New("scene: unknown scene")

	// ErrDuplicateScene is returned when a name is registered twice.
	ErrDuplicateScene = errors.New("scene: duplicate scene")
)

// Registry maps scene names to scenes. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	scenes map[string]Scene
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{scenes: make(map[string]Scene)}
}

// Register adds s under s.Name().
func (r *Registry) Register(s Scene) error {
	name := s.Name()
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidScene)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scenes[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateScene, name)
	}
	r.scenes[name] = s
	return nil
}

// Replace adds s, overwriting any scene with the same name.
func (r *Registry) Replace(s Scene) {
	r.mu.Lock()
	r.scenes[s.Name()] = s
	r.mu.Unlock()
}

// Get returns the scene registered under name.
func (r *Registry) Get(name string) (Scene, error) {
	r.mu.RLock()
	s, ok := r.scenes[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return s, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered scenes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scenes)
}
