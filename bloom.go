package bloom

import (
	"context"
	"log/slog"

	"github.com/aretw0/bloom/internal/logging"
	"github.com/aretw0/bloom/internal/runtime"
	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/ports"
	"github.com/aretw0/bloom/pkg/registry"
)

// Router is the high-level entry point for the bloom library.
// It wraps the internal sequencer and its route registry.
type Router struct {
	seq    *runtime.Sequencer
	routes *registry.Registry
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	strict bool
}

// Option defines a functional option for configuring the Router.
type Option func(*Router)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Router) {
		r.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the router.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithStrictRoutes makes registering the same route twice an error.
func WithStrictRoutes(strict bool) Option {
	return func(r *Router) {
		r.strict = strict
	}
}

// WithRegistry shares an existing route registry instead of creating one.
func WithRegistry(routes *registry.Registry) Option {
	return func(r *Router) {
		r.routes = routes
	}
}

// New creates a Router that renders into surface.
func New(surface ports.Surface, opts ...Option) *Router {
	r := &Router{}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.routes == nil {
		r.routes = registry.NewRegistry(
			registry.WithStrict(r.strict),
			registry.WithLogger(r.logger),
		)
	}

	r.seq = runtime.NewSequencer(r.routes, surface,
		runtime.WithLifecycleHooks(r.hooks),
		runtime.WithLogger(r.logger),
	)
	return r
}

// Page registers factory under route. See registry.Registry.Register.
func (r *Router) Page(route string, factory domain.Factory) error {
	return r.routes.Register(route, factory)
}

// Goto switches the Active Session to route and renders its first view.
func (r *Router) Goto(ctx context.Context, route string) error {
	return r.seq.Goto(ctx, route)
}

// Render re-applies the current view without advancing.
func (r *Router) Render(ctx context.Context) error {
	return r.seq.Render(ctx)
}

// Advance moves the Active Session to its next view without rendering it.
func (r *Router) Advance(ctx context.Context) (*domain.View, error) {
	return r.seq.Advance(ctx)
}

// Refresh rebuilds the current view from session state and renders it.
func (r *Router) Refresh(ctx context.Context) error {
	return r.seq.Refresh(ctx)
}

// Dispatch delivers a user event to the current view.
func (r *Router) Dispatch(ctx context.Context, ev domain.Event) error {
	return r.seq.Dispatch(ctx, ev)
}

// Current returns the current view.
func (r *Router) Current() (*domain.View, error) {
	return r.seq.Current()
}

// Route returns the active route, or "" before the first Goto.
func (r *Router) Route() string {
	return r.seq.Route()
}

// Routes returns the registered routes, sorted.
func (r *Router) Routes() []string {
	return r.routes.Routes()
}

// Snapshot captures the Active Session for persistence.
func (r *Router) Snapshot() (*domain.Snapshot, error) {
	return r.seq.Snapshot()
}

// Restore resumes a session from a snapshot.
func (r *Router) Restore(ctx context.Context, snap *domain.Snapshot) error {
	return r.seq.Restore(ctx, snap)
}

// Registry returns the route registry backing the router.
func (r *Router) Registry() *registry.Registry {
	return r.routes
}
