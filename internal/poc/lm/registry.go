package lm

import (
	"context"
	"fmt"
	"sync"

	"github.com/libreassistant/poc/internal/poc/options"
)

// Factory builds a Backend from LM options; registered once per provider
// name at init time by each providers/* package.
type Factory func(ctx context.Context, opts *options.LMOptions) (Backend, error)

// Registry is a generic thread-safe name -> Factory map, mirroring the
// teacher's provider registry pattern.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Factory
}

var defaultRegistry = &Registry{byKey: make(map[string]Factory)}

// Register adds factory under name to the default registry, overwriting
// any prior entry.
func Register(name string, factory Factory) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.byKey[name] = factory
}

// MustRegister is Register but panics on an accidental duplicate name.
func MustRegister(name string, factory Factory) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if _, ok := defaultRegistry.byKey[name]; ok {
		panic(fmt.Sprintf("lm: provider %q already registered", name))
	}
	defaultRegistry.byKey[name] = factory
}

// Build resolves opts.Backend to a Factory and invokes it.
func Build(ctx context.Context, opts *options.LMOptions) (Backend, error) {
	defaultRegistry.mu.RLock()
	factory, ok := defaultRegistry.byKey[opts.Backend]
	defaultRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("lm: no provider registered for backend %q", opts.Backend)
	}
	return factory(ctx, opts)
}

// List returns the names of every registered provider.
func List() []string {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	out := make([]string, 0, len(defaultRegistry.byKey))
	for name := range defaultRegistry.byKey {
		out = append(out, name)
	}
	return out
}
