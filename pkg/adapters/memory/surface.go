package memory

import (
	"context"
	"sync"

	"github.com/aretw0/bloom/pkg/domain"
)

// Surface is a render surface that records every view applied to it.
// Hosts without a live UI (HTTP, tests) read the last view back from it.
type Surface struct {
	mu    sync.Mutex
	views []*domain.View
}

// NewSurface creates an empty recording surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Apply records view.
func (s *Surface) Apply(ctx context.Context, view *domain.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, view)
	return nil
}

// Last returns the most recently applied view, or nil.
func (s *Surface) Last() *domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.views) == 0 {
		return nil
	}
	return s.views[len(s.views)-1]
}

// Count returns how many times Apply was called.
func (s *Surface) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Views returns the applied views in order.
func (s *Surface) Views() []*domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.View, len(s.views))
	copy(out, s.views)
	return out
}

// Reset forgets recorded views.
func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = nil
}
