package domain

// Producer yields Views one at a time. It is an explicit state machine:
// Created -> Suspended(view) -> {Suspended(view') | Terminated}.
// Next returns false once the producer is terminated, and keeps returning
// false afterwards.
type Producer interface {
	Next(st *State) (*View, bool)
}

// Factory creates a fresh Producer instance for each Goto.
type Factory func() Producer

// ProducerFunc adapts a function to the Producer interface.
type ProducerFunc func(st *State) (*View, bool)

// Next calls f.
func (f ProducerFunc) Next(st *State) (*View, bool) {
	return f(st)
}

// Rebuilder is implemented by producers that can rebuild the view of their
// current position from state without advancing.
type Rebuilder interface {
	Current(st *State) (*View, bool)
}

// Positioner is implemented by producers whose position can be captured and
// restored. Together with Rebuilder it makes a session resumable.
type Positioner interface {
	Position() int
	Seek(pos int) error
}
