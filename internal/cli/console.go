package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/aretw0/bloom"
	"github.com/aretw0/bloom/pkg/adapters/text"
	"github.com/aretw0/bloom/pkg/runner"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ConsoleOptions configures RunConsole.
type ConsoleOptions struct {
	Route    string
	Input    io.Reader
	Output   io.Writer
	Banner   bool
	Markdown bool
}

// RunConsole drives the app's pages from a line console until the input
// ends, the user quits, or ctx is cancelled.
func RunConsole(ctx context.Context, app *App, opts ConsoleOptions) error {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	route := opts.Route
	if route == "" {
		route = app.Config.Routes.Entry
	}

	profile := termenv.Ascii
	if f, ok := opts.Output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		profile = termenv.NewOutput(f).Profile
	}
	if opts.Banner {
		text.PrintBanner(opts.Output, profile)
	}

	surfaceOpts := []text.Option{text.WithProfile(profile)}
	if opts.Markdown {
		md, err := text.NewGlamourRenderer(profile != termenv.Ascii, 80)
		if err != nil {
			app.Logger.Warn("markdown rendering disabled", "err", err)
		} else {
			surfaceOpts = append(surfaceOpts, text.WithMarkdown(md))
		}
	}

	router := bloom.New(text.NewSurface(opts.Output, surfaceOpts...),
		bloom.WithRegistry(app.Routes),
		bloom.WithLogger(app.Logger),
		bloom.WithLifecycleHooks(app.Hooks()),
	)

	r := runner.New(router,
		runner.WithInput(opts.Input),
		runner.WithOutput(opts.Output),
		runner.WithLogger(app.Logger),
	)
	err := r.Run(ctx, route)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
