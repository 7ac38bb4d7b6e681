/*
Package dsl provides a Go DSL for declaring bloom pages and the views they show.

A page is an ordered list of steps. Each step is a function that builds a View
from the session's State. The Builder compiles the steps into a
domain.Factory, and each call to the factory yields an independent producer
with its own position. Element helpers (El, ID, Text, On, ...) keep view
construction declarative.

Example usage:

	package main

	import (
		"context"

		"github.com/aretw0/bloom/pkg/domain"
		"github.com/aretw0/bloom/pkg/dsl"
	)

	func main() {
		factory, err := dsl.New().
			Step(func(st *domain.State) *domain.View {
				return dsl.El("div",
					dsl.Child(dsl.El("label", dsl.Text("Enter your name"))),
					dsl.Child(dsl.El("input", dsl.ID("name"))),
					dsl.Child(dsl.El("button", dsl.ID("next"), dsl.Text("Next"),
						dsl.On("click", func(ctx context.Context, nav domain.Navigator, ev domain.Event) error {
							st.Set("name", ev.Form["name"])
							return nav.Render(ctx)
						}))),
				)
			}).
			Loop().
			Build()
		// ... register factory with a bloom.Router
	}
*/
package dsl
