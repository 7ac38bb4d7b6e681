package runner

import (
	"io"
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInput sets the line source. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(rn *Runner) {
		rn.in = r
	}
}

// WithOutput sets where prompts and errors are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(rn *Runner) {
		rn.out = w
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rn *Runner) {
		rn.logger = logger
	}
}

// WithPrompt forces the "> " prompt on or off. By default it is shown only
// when the input is a terminal.
func WithPrompt(show bool) Option {
	return func(rn *Runner) {
		rn.prompt = &show
	}
}

// WithMaxLineSize bounds the length of a single input line.
func WithMaxLineSize(n int) Option {
	return func(rn *Runner) {
		rn.maxLine = n
	}
}
