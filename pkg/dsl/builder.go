package dsl

import (
	"errors"

	"github.com/aretw0/bloom/pkg/domain"
)

// StepFunc builds the view of one step from the session state.
type StepFunc func(st *domain.State) *domain.View

// ErrNoSteps is returned when building a page without steps.
var ErrNoSteps = errors.New("page has no steps")

// Builder manages the page construction.
type Builder struct {
	init  func(st *domain.State)
	steps []StepFunc
	loop  bool
}

// New creates a new page builder.
func New() *Builder {
	return &Builder{}
}

// Init sets a function run against the fresh state before the first step is built.
func (b *Builder) Init(fn func(st *domain.State)) *Builder {
	b.init = fn
	return b
}

// Step appends a step to the page.
func (b *Builder) Step(fn StepFunc) *Builder {
	b.steps = append(b.steps, fn)
	return b
}

// Loop makes the page wrap around to its first step after the last one
// instead of terminating.
func (b *Builder) Loop() *Builder {
	b.loop = true
	return b
}

// Build compiles the page into a factory of independent producers.
func (b *Builder) Build() (domain.Factory, error) {
	if len(b.steps) == 0 {
		return nil, ErrNoSteps
	}
	for _, s := range b.steps {
		if s == nil {
			return nil, errors.New("page has a nil step")
		}
	}

	steps := make([]StepFunc, len(b.steps))
	copy(steps, b.steps)
	init, loop := b.init, b.loop

	return func() domain.Producer {
		return &Sequence{steps: steps, init: init, loop: loop, pos: -1}
	}, nil
}

// MustBuild is like Build but panics on error. Intended for package-level page tables.
func (b *Builder) MustBuild() domain.Factory {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}
	return f
}
