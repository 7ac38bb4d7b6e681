/*
Package bloom is a view sequencer: it drives named pages as ordered,
externally advanced sequences of views and renders them into a pluggable
render surface.

A page is registered under a route with a factory of Producers. Goto starts a
fresh producer for a route and renders its first view; Advance moves the
producer to its next view; Render re-applies the current view; Refresh
rebuilds it from the session state. Only one Active Session exists per Router,
and switching routes drops the previous one.

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/bloom"
		"github.com/aretw0/bloom/pkg/adapters/text"
		"github.com/aretw0/bloom/pkg/domain"
		"github.com/aretw0/bloom/pkg/dsl"
	)

	func main() {
		router := bloom.New(text.NewSurface(os.Stdout))

		err := router.Page("/hello", dsl.New().
			Step(func(st *domain.State) *domain.View { return dsl.El("h1", dsl.Text("Hello")) }).
			Step(func(st *domain.State) *domain.View { return dsl.El("h1", dsl.Text("World")) }).
			MustBuild())
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		if err := router.Goto(ctx, "/hello"); err != nil { // prints "Hello"
			log.Fatal(err)
		}
		if _, err := router.Advance(ctx); err != nil {
			log.Fatal(err)
		}
		_ = router.Render(ctx) // prints "World"
	}
*/
package bloom
