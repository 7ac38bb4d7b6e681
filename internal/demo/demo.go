package demo

import (
	"github.com/aretw0/bloom/pkg/domain"
)

// Registrar is anything pages can be registered on, such as a
// *registry.Registry.
type Registrar interface {
	Register(route string, factory domain.Factory) error
}

// Register installs the demo pages on r.
func Register(r Registrar, book *ProfileBook) error {
	pages := []struct {
		route   string
		factory domain.Factory
	}{
		{RouteEditProfile, editProfile(book)},
		{RouteCompleted, completed(book)},
		{RouteTodos, todos()},
	}
	for _, p := range pages {
		if err := r.Register(p.route, p.factory); err != nil {
			return err
		}
	}
	return nil
}
