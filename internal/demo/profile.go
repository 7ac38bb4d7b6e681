package demo

import (
	"context"
	"strings"
	"sync"

	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/dsl"
)

// Routes served by the demo pages.
const (
	RouteEditProfile = "/edit-profile"
	RouteCompleted   = "/completed"
	RouteTodos       = "/todos"
)

// Profile is what the wizard collects.
type Profile struct {
	Name string `json:"name"`
	Age  string `json:"age"`
}

// String renders the profile as "name:age".
func (p Profile) String() string {
	return p.Name + ":" + p.Age
}

// ProfileBook records saved profiles. It is shared by all sessions.
type ProfileBook struct {
	mu       sync.RWMutex
	profiles []Profile
}

// NewProfileBook creates an empty book.
func NewProfileBook() *ProfileBook {
	return &ProfileBook{}
}

// Record appends p.
func (b *ProfileBook) Record(p Profile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles = append(b.profiles, p)
}

// Last returns the most recently saved profile.
func (b *ProfileBook) Last() (Profile, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.profiles) == 0 {
		return Profile{}, false
	}
	return b.profiles[len(b.profiles)-1], true
}

// All returns a copy of every saved profile, oldest first.
func (b *ProfileBook) All() []Profile {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Profile(nil), b.profiles...)
}

// field reads a form value, falling back to the event value so that a console
// line like "next Ada" works as well as "next name=Ada".
func field(ev domain.Event, name string) string {
	if v, ok := ev.Form[name]; ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(ev.Value)
}

// editProfile is the two-screen wizard. It loops: after Save the user lands
// on /completed, and coming back starts over on the name screen.
func editProfile(book *ProfileBook) domain.Factory {
	return dsl.New().
		Step(func(st *domain.State) *domain.View {
			return dsl.El("div", dsl.Child(
				dsl.El("label", dsl.Text("Enter your name")),
				dsl.El("input", dsl.ID("name"), dsl.Attr("type", "text"), dsl.Attr("value", st.String("name"))),
				dsl.El("button", dsl.ID("next"), dsl.Text("Next"),
					dsl.On("click", func(ctx context.Context, nav domain.Navigator, ev domain.Event) error {
						st.Set("name", field(ev, "name"))
						if _, err := nav.Advance(ctx); err != nil {
							return err
						}
						return nav.Render(ctx)
					})),
			))
		}).
		Step(func(st *domain.State) *domain.View {
			return dsl.El("div", dsl.Child(
				dsl.El("label", dsl.Text("Your age?")),
				dsl.El("input", dsl.ID("age"), dsl.Attr("type", "text"), dsl.Attr("value", st.String("age"))),
				dsl.El("button", dsl.ID("save"), dsl.Text("Save"),
					dsl.On("click", func(ctx context.Context, nav domain.Navigator, ev domain.Event) error {
						st.Set("age", field(ev, "age"))
						book.Record(Profile{Name: st.String("name"), Age: st.String("age")})
						return nav.Goto(ctx, RouteCompleted)
					})),
			))
		}).
		Loop().
		MustBuild()
}

// completed shows the last saved profile.
func completed(book *ProfileBook) domain.Factory {
	return dsl.New().
		Step(func(st *domain.State) *domain.View {
			msg := "No profile saved yet"
			if p, ok := book.Last(); ok {
				msg = "Saved " + p.String()
			}
			return dsl.El("div", dsl.Child(
				dsl.El("h1", dsl.Text("Profile")),
				dsl.El("p", dsl.ID("saved"), dsl.Text(msg)),
				dsl.El("button", dsl.ID("again"), dsl.Text("Edit again"),
					dsl.On("click", func(ctx context.Context, nav domain.Navigator, ev domain.Event) error {
						return nav.Goto(ctx, RouteEditProfile)
					})),
			))
		}).
		MustBuild()
}
