package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/bloom/internal/logging"
	"github.com/aretw0/bloom/pkg/domain"
)

// Registry maps route identifiers to producer factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]domain.Factory
	strict    bool
	logger    *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithStrict makes duplicate registrations fail with domain.ErrRouteExists
// instead of silently replacing the previous factory.
func WithStrict(strict bool) Option {
	return func(r *Registry) {
		r.strict = strict
	}
}

// WithLogger configures a logger for the Registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]domain.Factory),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register associates route with factory.
// If the route exists, it is overwritten (last write wins) and a warning is
// logged, unless the registry is strict.
func (r *Registry) Register(route string, factory domain.Factory) error {
	if route == "" {
		return fmt.Errorf("%w: empty route", domain.ErrInvalidRoute)
	}
	if factory == nil {
		return fmt.Errorf("%w: nil factory for %q", domain.ErrInvalidRoute, route)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[route]; exists {
		if r.strict {
			return fmt.Errorf("%w: %s", domain.ErrRouteExists, route)
		}
		r.logger.Warn("route re-registered, previous factory replaced", "route", route)
	}
	r.factories[route] = factory
	return nil
}

// Lookup returns the factory registered for route.
func (r *Registry) Lookup(route string) (domain.Factory, error) {
	r.mu.RLock()
	factory, ok := r.factories[route]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRouteNotFound, route)
	}
	return factory, nil
}

// Routes returns the registered routes, sorted.
func (r *Registry) Routes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]string, 0, len(r.factories))
	for route := range r.factories {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}

// Len returns the number of registered routes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}
