package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/bloom/pkg/domain"
)

// Dispatch delivers ev to the handler bound on the element of the current view
// whose id is ev.Target. The handler runs after the sequencer lock is released,
// so it may call Goto, Advance, Render or Refresh on the sequencer it receives.
func (s *Sequencer) Dispatch(ctx context.Context, ev domain.Event) error {
	s.mu.Lock()
	sess, err := s.current()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	handler, ok := sess.view.Handler(ev.Target, ev.Name)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s on #%s", domain.ErrNoHandler, ev.Name, ev.Target)
	}
	hookEv := sess.event(domain.EventDispatch)
	hookEv.Target, hookEv.Name = ev.Target, ev.Name
	s.hooks.Emit(ctx, hookEv)
	s.mu.Unlock()

	if err := handler(ctx, s, ev); err != nil {
		return fmt.Errorf("handler %s on #%s: %w", ev.Name, ev.Target, err)
	}
	return nil
}
