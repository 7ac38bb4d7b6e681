package dsl

import (
	"fmt"

	"github.com/aretw0/bloom/pkg/domain"
)

// Sequence is a producer walking an ordered list of steps.
// pos is -1 before the first Next and len(steps) once terminated.
type Sequence struct {
	steps []StepFunc
	init  func(st *domain.State)
	loop  bool
	pos   int
}

var (
	_ domain.Producer   = (*Sequence)(nil)
	_ domain.Rebuilder  = (*Sequence)(nil)
	_ domain.Positioner = (*Sequence)(nil)
)

// Next advances to the following step and builds its view.
func (s *Sequence) Next(st *domain.State) (*domain.View, bool) {
	if s.terminated() {
		return nil, false
	}
	if s.pos == -1 && s.init != nil {
		s.init(st)
	}

	s.pos++
	if s.pos >= len(s.steps) {
		if !s.loop {
			s.pos = len(s.steps)
			return nil, false
		}
		s.pos = 0
	}
	return s.steps[s.pos](st), true
}

// Current rebuilds the view of the current step without moving.
func (s *Sequence) Current(st *domain.State) (*domain.View, bool) {
	if s.pos < 0 || s.terminated() {
		return nil, false
	}
	return s.steps[s.pos](st), true
}

// Position returns the index of the current step.
func (s *Sequence) Position() int {
	return s.pos
}

// Seek moves to pos without building anything. Init is not re-run, since a
// restored state already carries whatever it set.
func (s *Sequence) Seek(pos int) error {
	if pos < -1 || pos > len(s.steps) {
		return fmt.Errorf("position %d out of range [-1, %d]", pos, len(s.steps))
	}
	s.pos = pos
	return nil
}

func (s *Sequence) terminated() bool {
	return s.pos >= len(s.steps)
}
