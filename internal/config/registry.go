package config

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/MrWong99/dikte/internal/storage"
)

// ErrBackendNotRegistered is returned by [Registry.CreateBackend] when no
// factory has been registered under the requested backend name.
var ErrBackendNotRegistered = errors.New("config: backend not registered")

// BackendFactory opens a storage backend from its config section.
type BackendFactory func(ctx context.Context, cfg StorageConfig) (storage.Backend, error)

// Registry maps backend names to their constructors. It is safe for
// concurrent use. Keeping constructors out of this package lets the CLI
// decide which drivers get linked in.
type Registry struct {
	mu       sync.RWMutex
	backends map[Backend]BackendFactory
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{backends: make(map[Backend]BackendFactory)}
}

// RegisterBackend registers factory under name. Subsequent calls with the
// same name overwrite the previous registration.
func (r *Registry) RegisterBackend(name Backend, factory BackendFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[name] = factory
}

// Backends returns the registered names, sorted.
func (r *Registry) Backends() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Backend, 0, len(r.backends))
	for name := range r.backends {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CreateBackend opens the backend cfg.Backend names.
func (r *Registry) CreateBackend(ctx context.Context, cfg StorageConfig) (storage.Backend, error) {
	r.mu.RLock()
	factory, ok := r.backends[cfg.Backend]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotRegistered, cfg.Backend)
	}
	b, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: open %s backend: %w", cfg.Backend, err)
	}
	return b, nil
}
