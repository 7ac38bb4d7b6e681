package text

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer transforms markdown source into terminal output.
type MarkdownRenderer func(string) (string, error)

// NewGlamourRenderer returns a MarkdownRenderer backed by glamour.
// With autoStyle the theme follows the terminal background; otherwise the
// plain "notty" style is used, which is stable across environments.
func NewGlamourRenderer(autoStyle bool, width int) (MarkdownRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("notty")}
	if autoStyle {
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle()}
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
