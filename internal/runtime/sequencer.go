package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/bloom/internal/logging"
	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/ports"
	"github.com/aretw0/bloom/pkg/registry"
)

// Sequencer drives one Active Session at a time through the views its
// producer yields, applying them to a render surface.
//
// Goto, Render, Advance, Refresh, Snapshot and Restore are serialized.
// Producers, step builders, surfaces and hooks run while the sequencer is
// locked and must not call back into it; event handlers run unlocked (see Dispatch).
type Sequencer struct {
	mu         sync.Mutex
	routes     *registry.Registry
	surface    ports.Surface
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	active     *session
	generation uint64
}

// Option configures the Sequencer.
type Option func(*Sequencer)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Sequencer) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSequencer creates a sequencer over routes that renders into surface.
func NewSequencer(routes *registry.Registry, surface ports.Surface, opts ...Option) *Sequencer {
	s := &Sequencer{
		routes:  routes,
		surface: surface,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Goto makes route the Active Session: the previous session is dropped without
// any finalizer, a fresh producer and state are created, the producer is
// advanced once and its first view is applied to the surface.
// An unknown route leaves the surface and the current session untouched.
func (s *Sequencer) Goto(ctx context.Context, route string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	factory, err := s.routes.Lookup(route)
	if err != nil {
		return err
	}
	producer := factory()
	if producer == nil {
		return fmt.Errorf("factory for %s returned a nil producer", route)
	}

	s.generation++
	next := &session{
		route:      route,
		producer:   producer,
		state:      domain.NewState(),
		generation: s.generation,
	}

	if prev := s.active; prev != nil {
		s.logger.Debug("discarding session", "route", prev.route, "generation", prev.generation)
		s.hooks.Emit(ctx, prev.event(domain.EventDiscard))
	}
	s.active = next

	view, ok := producer.Next(next.state)
	if !ok {
		next.terminate()
		s.logger.Warn("producer yielded no view", "route", route)
		s.hooks.Emit(ctx, next.event(domain.EventExhausted))
		return fmt.Errorf("goto %s: %w", route, domain.ErrSessionExhausted)
	}
	next.view = view
	next.status = domain.StatusSuspended

	s.logger.Debug("goto", "route", route, "generation", next.generation)
	s.hooks.Emit(ctx, next.event(domain.EventGoto))

	return s.apply(ctx, next)
}

// Render re-applies the most recent view of the Active Session without
// advancing its producer. Until the next Advance the surface receives the
// very same view value that Goto produced.
func (s *Sequencer) Render(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current()
	if err != nil {
		return err
	}
	s.hooks.Emit(ctx, sess.event(domain.EventRender))
	return s.apply(ctx, sess)
}

// Advance resumes the producer to obtain its next view and makes it current.
// The view is returned but not applied; call Render to show it.
// Once the producer terminates the session holds no view and every later
// Render or Advance fails with domain.ErrSessionExhausted.
func (s *Sequencer) Advance(ctx context.Context) (*domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current()
	if err != nil {
		return nil, err
	}

	view, ok := sess.producer.Next(sess.state)
	if !ok {
		sess.terminate()
		s.logger.Debug("session exhausted", "route", sess.route, "generation", sess.generation, "advances", sess.advances)
		s.hooks.Emit(ctx, sess.event(domain.EventExhausted))
		return nil, fmt.Errorf("advance %s: %w", sess.route, domain.ErrSessionExhausted)
	}
	sess.view = view
	sess.advances++
	s.hooks.Emit(ctx, sess.event(domain.EventAdvance))
	return view, nil
}

// Refresh rebuilds the current step's view from the session state and applies
// it, so changes made by handlers show up without advancing. Producers that
// cannot rebuild fall back to re-applying the current view.
func (s *Sequencer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current()
	if err != nil {
		return err
	}

	if rb, ok := sess.producer.(domain.Rebuilder); ok {
		if view, ok := rb.Current(sess.state); ok {
			sess.view = view
		}
	}
	s.hooks.Emit(ctx, sess.event(domain.EventRefresh))
	return s.apply(ctx, sess)
}

// Current returns the current view of the Active Session.
func (s *Sequencer) Current() (*domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	return sess.view, nil
}

// Route returns the route of the Active Session, or "" before the first Goto.
func (s *Sequencer) Route() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return ""
	}
	return s.active.route
}

// Status returns the status of the Active Session, or "" before the first Goto.
func (s *Sequencer) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return ""
	}
	return s.active.status
}

// Routes returns the registry the sequencer resolves routes against.
func (s *Sequencer) Routes() *registry.Registry {
	return s.routes
}

// current returns the live session. Callers must hold s.mu.
func (s *Sequencer) current() (*session, error) {
	if s.active == nil {
		return nil, domain.ErrNoActiveSession
	}
	if s.active.exhausted() {
		return nil, fmt.Errorf("%s: %w", s.active.route, domain.ErrSessionExhausted)
	}
	return s.active, nil
}

// apply hands the session's view to the surface. Callers must hold s.mu.
func (s *Sequencer) apply(ctx context.Context, sess *session) error {
	if err := s.surface.Apply(ctx, sess.view); err != nil {
		s.logger.Error("surface apply failed", "route", sess.route, "err", err)
		return fmt.Errorf("render %s: %w", sess.route, err)
	}
	sess.renders++
	return nil
}

var _ domain.Navigator = (*Sequencer)(nil)
