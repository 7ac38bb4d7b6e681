package dsl

import "github.com/aretw0/bloom/pkg/domain"

// Part configures an element under construction.
type Part func(v *domain.View)

// El creates an element with the given tag.
func El(tag string, parts ...Part) *domain.View {
	v := &domain.View{Tag: tag}
	for _, p := range parts {
		if p != nil {
			p(v)
		}
	}
	return v
}

// Txt creates a bare text node.
func Txt(text string) *domain.View {
	return &domain.View{Text: text}
}

// Attr sets an attribute.
func Attr(name, value string) Part {
	return func(v *domain.View) {
		if v.Attrs == nil {
			v.Attrs = make(map[string]string)
		}
		v.Attrs[name] = value
	}
}

// ID sets the id attribute, which events use to find their target.
func ID(id string) Part {
	return Attr("id", id)
}

// Key sets the reconciliation key of the element.
func Key(key string) Part {
	return func(v *domain.View) {
		v.Key = key
	}
}

// Text appends a text node child.
func Text(text string) Part {
	return Child(Txt(text))
}

// Child appends child elements. Nil children are skipped.
func Child(children ...*domain.View) Part {
	return func(v *domain.View) {
		for _, c := range children {
			if c != nil {
				v.Children = append(v.Children, c)
			}
		}
	}
}

// On binds a handler for the named event.
func On(event string, h domain.Handler) Part {
	return func(v *domain.View) {
		if v.Handlers == nil {
			v.Handlers = make(map[string]domain.Handler)
		}
		v.Handlers[event] = h
	}
}
