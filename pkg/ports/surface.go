package ports

import (
	"context"

	"github.com/aretw0/bloom/pkg/domain"
)

// Surface is the render surface: it makes its target reflect view.
// Apply is expected to be idempotent; applying the same view twice leaves the
// target unchanged. Malformed views are the surface's problem, not the sequencer's.
type Surface interface {
	Apply(ctx context.Context, view *domain.View) error
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(ctx context.Context, view *domain.View) error

// Apply calls f.
func (f SurfaceFunc) Apply(ctx context.Context, view *domain.View) error {
	return f(ctx, view)
}
