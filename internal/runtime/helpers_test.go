package runtime_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/bloom/internal/runtime"
	"github.com/aretw0/bloom/pkg/adapters/memory"
	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/dsl"
	"github.com/aretw0/bloom/pkg/registry"
	"github.com/stretchr/testify/require"
)

// countdown yields exactly k views labelled "view 1".."view k".
func countdown(k int) domain.Factory {
	return func() domain.Producer {
		n := 0
		return domain.ProducerFunc(func(st *domain.State) (*domain.View, bool) {
			if n >= k {
				return nil, false
			}
			n++
			return dsl.Txt(fmt.Sprintf("view %d", n)), true
		})
	}
}

// wizard is the two-screen name/age page, terminating after the second screen.
func wizard() domain.Factory {
	return dsl.New().
		Step(func(st *domain.State) *domain.View {
			return dsl.El("div",
				dsl.Child(dsl.El("label", dsl.Text("Enter your name"))),
				dsl.Child(dsl.El("input", dsl.ID("name"), dsl.Attr("value", st.String("name")))),
				dsl.Child(dsl.El("button", dsl.ID("next"), dsl.Text("Next"),
					dsl.On("click", func(ctx context.Context, nav domain.Navigator, ev domain.Event) error {
						st.Set("name", ev.Form["name"])
						if _, err := nav.Advance(ctx); err != nil {
							return err
						}
						return nav.Render(ctx)
					}))),
			)
		}).
		Step(func(st *domain.State) *domain.View {
			return dsl.El("div",
				dsl.Child(dsl.El("label", dsl.Text("Your age, "+st.String("name")+"?"))),
				dsl.Child(dsl.El("input", dsl.ID("age"))),
			)
		}).
		MustBuild()
}

func newSequencer(t *testing.T, opts ...runtime.Option) (*runtime.Sequencer, *registry.Registry, *memory.Surface) {
	t.Helper()
	routes := registry.NewRegistry()
	surface := memory.NewSurface()
	require.NoError(t, routes.Register("/wizard", wizard()))
	return runtime.NewSequencer(routes, surface, opts...), routes, surface
}

func label(v *domain.View) string {
	return v.Children[0].Children[0].Text
}
