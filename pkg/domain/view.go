package domain

import (
	"context"
	"encoding/json"
	"sort"
)

// Navigator is the control surface handed to event handlers.
// It is implemented by the sequencer so a handler can move the page along.
type Navigator interface {
	Goto(ctx context.Context, route string) error
	Render(ctx context.Context) error
	Advance(ctx context.Context) (*View, error)
	Refresh(ctx context.Context) error
}

// Event is a user interaction delivered by the host (terminal, HTTP client, ...).
type Event struct {
	// Target is the id attribute of the element the event is aimed at.
	Target string `json:"target"`
	// Name is the event name, e.g. "click" or "submit".
	Name string `json:"event"`
	// Value carries the primary payload (the text typed, the item id).
	Value string `json:"value,omitempty"`
	// Form carries the current values of named inputs at dispatch time.
	Form map[string]string `json:"form,omitempty"`
}

// Handler reacts to an Event on a View element.
type Handler func(ctx context.Context, nav Navigator, ev Event) error

// View is a declarative description of UI.
// A View with an empty Tag and non-empty Text is a text node.
type View struct {
	Tag      string             `json:"tag,omitempty"`
	Key      string             `json:"key,omitempty"`
	Text     string             `json:"text,omitempty"`
	Attrs    map[string]string  `json:"attrs,omitempty"`
	Children []*View            `json:"children,omitempty"`
	Handlers map[string]Handler `json:"-"`
}

// ID returns the id attribute of the element.
func (v *View) ID() string {
	if v == nil || v.Attrs == nil {
		return ""
	}
	return v.Attrs["id"]
}

// IsText reports whether the view is a bare text node.
func (v *View) IsText() bool {
	return v != nil && v.Tag == ""
}

// Events returns the sorted names of the events bound on this element.
func (v *View) Events() []string {
	if v == nil || len(v.Handlers) == 0 {
		return nil
	}
	names := make([]string, 0, len(v.Handlers))
	for name := range v.Handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk visits the view depth-first. Returning false from fn stops the walk.
func (v *View) Walk(fn func(*View) bool) bool {
	if v == nil {
		return true
	}
	if !fn(v) {
		return false
	}
	for _, child := range v.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first element whose id attribute equals id.
func (v *View) Find(id string) *View {
	var found *View
	v.Walk(func(n *View) bool {
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Handler returns the handler bound for event on the element with the given id.
func (v *View) Handler(id, event string) (Handler, bool) {
	el := v.Find(id)
	if el == nil || el.Handlers == nil {
		return nil, false
	}
	h, ok := el.Handlers[event]
	return h, ok && h != nil
}

// MarshalJSON encodes the view, listing bound event names under "on".
func (v *View) MarshalJSON() ([]byte, error) {
	type plain View
	return json.Marshal(struct {
		*plain
		On []string `json:"on,omitempty"`
	}{
		plain: (*plain)(v),
		On:    v.Events(),
	})
}
