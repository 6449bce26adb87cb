package backend

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/vg"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for Default (first available wins). The recorder
	// draws nothing and is never picked by Default.
	priority = []string{NameGPU, NameEbiten, NameSoft}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get creates a backend by name.
func Get(name string, width, height int) (vg.Backend, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return factory(width, height)
}

// Default creates the best available backend in priority order. A
// factory that fails is skipped and the next one tried.
func Default(width, height int) (vg.Backend, error) {
	var lastErr error
	for _, name := range priority {
		if !IsRegistered(name) {
			continue
		}
		b, err := Get(name, width, height)
		if err == nil {
			return b, nil
		}
		vg.Logger().Debug("backend: unavailable", "name", name, "err", err)
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrBackendNotAvailable
}

// MustDefault is Default that panics on error.
func MustDefault(width, height int) vg.Backend {
	b, err := Default(width, height)
	if err != nil {
		panic(err)
	}
	return b
}
