package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/bloom/pkg/domain"
	"github.com/muesli/termenv"
)

const indentUnit = "  "

// Surface writes views to an io.Writer.
type Surface struct {
	mu       sync.Mutex
	w        io.Writer
	profile  termenv.Profile
	markdown MarkdownRenderer
}

// Option configures a Surface.
type Option func(*Surface)

// WithProfile sets the color profile used for styling. The default is
// termenv.Ascii, which writes no escape sequences.
func WithProfile(p termenv.Profile) Option {
	return func(s *Surface) {
		s.profile = p
	}
}

// WithMarkdown routes the text of markdown elements through r.
func WithMarkdown(r MarkdownRenderer) Option {
	return func(s *Surface) {
		s.markdown = r
	}
}

// NewSurface creates a Surface writing to w (os.Stdout when nil).
func NewSurface(w io.Writer, opts ...Option) *Surface {
	if w == nil {
		w = os.Stdout
	}
	s := &Surface{w: w, profile: termenv.Ascii}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply writes the formatted view followed by a blank line.
func (s *Surface) Apply(ctx context.Context, view *domain.View) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out := s.Format(view)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, out); err != nil {
		return fmt.Errorf("text surface: %w", err)
	}
	return nil
}

// Format renders view without writing it.
func (s *Surface) Format(view *domain.View) string {
	var b strings.Builder
	s.format(&b, view, 0)
	return b.String()
}

func (s *Surface) format(b *strings.Builder, v *domain.View, depth int) {
	if v == nil {
		return
	}
	indent := strings.Repeat(indentUnit, depth)

	switch {
	case v.IsText():
		if t := strings.TrimSpace(v.Text); t != "" {
			line(b, indent, t)
		}
	case v.Tag == "markdown":
		s.formatMarkdown(b, v, indent)
	case v.Tag == "input" || v.Tag == "textarea":
		line(b, indent, s.formatInput(v))
	case v.Tag == "button":
		line(b, indent, s.formatButton(v))
	case isInline(v):
		text := s.inlineText(v)
		if strings.HasPrefix(v.Tag, "h") && len(v.Tag) == 2 {
			text = s.profile.String(text).Bold().String()
		}
		line(b, indent, s.withTarget(v, text))
	default:
		next := depth
		if id := v.ID(); id != "" && len(v.Handlers) > 0 {
			line(b, indent, s.target(v))
			next++
		}
		for _, c := range v.Children {
			s.format(b, c, next)
		}
	}
}

func (s *Surface) formatMarkdown(b *strings.Builder, v *domain.View, indent string) {
	src := collectText(v)
	out := src
	if s.markdown != nil {
		if rendered, err := s.markdown(src); err == nil {
			out = rendered
		}
	}
	for _, l := range strings.Split(strings.Trim(out, "\n"), "\n") {
		line(b, indent, strings.TrimRight(l, " "))
	}
}

func (s *Surface) formatInput(v *domain.View) string {
	value := v.Attrs["value"]
	if value == "" {
		value = s.profile.String(v.Attrs["placeholder"]).Faint().String()
	}
	return fmt.Sprintf("%s %s", s.target(v), s.profile.String("["+value+"]").Underline())
}

func (s *Surface) formatButton(v *domain.View) string {
	label := s.inlineText(v)
	if label == "" {
		label = v.ID()
	}
	return fmt.Sprintf("%s %s", s.target(v), s.profile.String("< "+label+" >").Reverse())
}

// withTarget suffixes addressable elements with their target marker.
func (s *Surface) withTarget(v *domain.View, text string) string {
	if v.ID() == "" || len(v.Handlers) == 0 {
		return text
	}
	return text + " " + s.target(v)
}

// target renders "#id" plus the bound events, e.g. "#next(click)".
func (s *Surface) target(v *domain.View) string {
	t := "#" + v.ID()
	if events := v.Events(); len(events) > 0 {
		t += "(" + strings.Join(events, ",") + ")"
	}
	return s.profile.String(t).Foreground(s.profile.Color("#60a5fa")).String()
}

func (s *Surface) inlineText(v *domain.View) string {
	return strings.Join(strings.Fields(collectText(v)), " ")
}

func isInline(v *domain.View) bool {
	if len(v.Children) == 0 {
		return v.Tag != "div" && v.Tag != "form" && v.Tag != "ul" && v.Tag != "section"
	}
	for _, c := range v.Children {
		if !c.IsText() {
			return false
		}
	}
	return true
}

func collectText(v *domain.View) string {
	var parts []string
	v.Walk(func(n *domain.View) bool {
		if n.IsText() && n.Text != "" {
			parts = append(parts, n.Text)
		}
		return true
	})
	return strings.Join(parts, " ")
}

func line(b *strings.Builder, indent, text string) {
	b.WriteString(indent)
	b.WriteString(text)
	b.WriteByte('\n')
}
