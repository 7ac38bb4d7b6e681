package runtime

import (
	"time"

	"github.com/aretw0/bloom/pkg/domain"
)

// session is the Active Session: one producer instance, the state it owns,
// and the most recent view it yielded.
type session struct {
	route      string
	producer   domain.Producer
	state      *domain.State
	view       *domain.View
	status     domain.SessionStatus
	generation uint64
	advances   int
	renders    int
}

func (s *session) terminate() {
	s.status = domain.StatusTerminated
	s.view = nil
}

func (s *session) exhausted() bool {
	return s.status == domain.StatusTerminated
}

func (s *session) event(typ domain.EventType) *domain.SessionEvent {
	return &domain.SessionEvent{
		Timestamp:  time.Now(),
		Type:       typ,
		Route:      s.route,
		Generation: s.generation,
		Advances:   s.advances,
	}
}
