package bloom_test

import (
	"context"
	"testing"

	"github.com/aretw0/bloom"
	"github.com/aretw0/bloom/pkg/adapters/memory"
	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoStep() domain.Factory {
	return dsl.New().
		Step(func(st *domain.State) *domain.View { return dsl.Txt("first") }).
		Step(func(st *domain.State) *domain.View { return dsl.Txt("second") }).
		MustBuild()
}

func TestRouter_Facade(t *testing.T) {
	surface := memory.NewSurface()
	var gotos int
	router := bloom.New(surface, bloom.WithLifecycleHooks(domain.LifecycleHooks{
		OnGoto: func(context.Context, *domain.SessionEvent) { gotos++ },
	}))
	require.NoError(t, router.Page("/steps", twoStep()))
	ctx := context.Background()

	assert.Equal(t, []string{"/steps"}, router.Routes())
	assert.Equal(t, "", router.Route())

	require.NoError(t, router.Goto(ctx, "/steps"))
	assert.Equal(t, "first", surface.Last().Text)
	assert.Equal(t, 1, gotos)

	view, err := router.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", view.Text)

	require.NoError(t, router.Render(ctx))
	assert.Equal(t, "second", surface.Last().Text)

	current, err := router.Current()
	require.NoError(t, err)
	assert.Same(t, view, current)

	_, err = router.Advance(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionExhausted)
}

func TestRouter_StrictRoutes(t *testing.T) {
	router := bloom.New(memory.NewSurface(), bloom.WithStrictRoutes(true))
	require.NoError(t, router.Page("/steps", twoStep()))
	assert.ErrorIs(t, router.Page("/steps", twoStep()), domain.ErrRouteExists)
}

func TestRouter_SnapshotRestore(t *testing.T) {
	router := bloom.New(memory.NewSurface())
	require.NoError(t, router.Page("/steps", twoStep()))
	ctx := context.Background()

	require.NoError(t, router.Goto(ctx, "/steps"))
	_, err := router.Advance(ctx)
	require.NoError(t, err)
	snap, err := router.Snapshot()
	require.NoError(t, err)

	surface := memory.NewSurface()
	other := bloom.New(surface, bloom.WithRegistry(router.Registry()))
	require.NoError(t, other.Restore(ctx, snap))
	assert.Equal(t, "second", surface.Last().Text)
	assert.Equal(t, "/steps", other.Route())
}
