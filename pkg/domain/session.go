package domain

import "time"

// SessionStatus is the lifecycle state of an Active Session's producer.
type SessionStatus string

const (
	StatusSuspended  SessionStatus = "suspended"  // A view is current, waiting for Advance
	StatusTerminated SessionStatus = "terminated" // Producer has no further views
)

// Snapshot is the serializable projection of an Active Session.
type Snapshot struct {
	SessionID  string         `json:"session_id,omitempty"`
	Route      string         `json:"route"`
	Status     SessionStatus  `json:"status"`
	Position   int            `json:"position"`
	Generation uint64         `json:"generation"`
	Advances   int            `json:"advances"`
	Renders    int            `json:"renders"`
	Values     map[string]any `json:"values,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Exhausted reports whether the snapshot is of a terminated session.
func (s *Snapshot) Exhausted() bool {
	return s.Status == StatusTerminated
}
