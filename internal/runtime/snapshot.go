package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/bloom/pkg/domain"
)

// Resumable reports whether the Active Session can be snapshotted.
func (s *Sequencer) Resumable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return false
	}
	return resumable(s.active.producer)
}

func resumable(p domain.Producer) bool {
	_, pos := p.(domain.Positioner)
	_, rb := p.(domain.Rebuilder)
	return pos && rb
}

// Snapshot captures the Active Session, exhausted or not.
func (s *Sequencer) Snapshot() (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.active
	if sess == nil {
		return nil, domain.ErrNoActiveSession
	}
	pos, ok := sess.producer.(domain.Positioner)
	if !ok || !resumable(sess.producer) {
		return nil, fmt.Errorf("snapshot %s: %w", sess.route, domain.ErrNotResumable)
	}

	return &domain.Snapshot{
		Route:      sess.route,
		Status:     sess.status,
		Position:   pos.Position(),
		Generation: sess.generation,
		Advances:   sess.advances,
		Renders:    sess.renders,
		Values:     sess.state.Values(),
		UpdatedAt:  time.Now().UTC(),
	}, nil
}

// Restore replaces the Active Session with one rebuilt from snap. A suspended
// snapshot has its current view rebuilt from the restored values and applied
// to the surface; a terminated one is restored as exhausted without rendering.
func (s *Sequencer) Restore(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("restore: %w", domain.ErrInvalidSnapshot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	factory, err := s.routes.Lookup(snap.Route)
	if err != nil {
		return err
	}
	producer := factory()
	if producer == nil || !resumable(producer) {
		return fmt.Errorf("restore %s: %w", snap.Route, domain.ErrNotResumable)
	}
	if err := producer.(domain.Positioner).Seek(snap.Position); err != nil {
		return fmt.Errorf("restore %s: %w", snap.Route, err)
	}

	if snap.Generation > s.generation {
		s.generation = snap.Generation
	}
	sess := &session{
		route:      snap.Route,
		producer:   producer,
		state:      domain.NewStateFrom(snap.Values),
		status:     domain.StatusSuspended,
		generation: snap.Generation,
		advances:   snap.Advances,
		renders:    snap.Renders,
	}

	var view *domain.View
	if !snap.Exhausted() {
		var ok bool
		view, ok = producer.(domain.Rebuilder).Current(sess.state)
		if !ok {
			return fmt.Errorf("restore %s: no view at position %d: %w", snap.Route, snap.Position, domain.ErrNotResumable)
		}
	}

	if prev := s.active; prev != nil {
		s.logger.Debug("discarding session", "route", prev.route, "generation", prev.generation)
		s.hooks.Emit(ctx, prev.event(domain.EventDiscard))
	}

	if snap.Exhausted() {
		sess.terminate()
		s.active = sess
		return nil
	}
	sess.view = view
	s.active = sess

	s.logger.Debug("session restored", "route", sess.route, "generation", sess.generation, "position", snap.Position)
	return s.apply(ctx, sess)
}
