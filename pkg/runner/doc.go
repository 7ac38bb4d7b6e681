/*
Package runner drives a bloom sequencer from a line-oriented console.

Each line read from the input is parsed into either an event dispatched to
the current view or a meta command (":goto", ":render", ":advance",
":refresh", ":quit"). Errors are reported and the loop carries on; it ends
on EOF, ":quit", context cancellation, or when the active session is
exhausted.

# Usage

	router := bloom.New(text.NewSurface(os.Stdout))
	demo.Register(router)

	r := runner.New(router, runner.WithInput(os.Stdin), runner.WithOutput(os.Stdout))
	if err := r.Run(ctx, "/edit-profile"); err != nil {
		log.Fatal(err)
	}
*/
package runner
