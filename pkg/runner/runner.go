package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/bloom/internal/logging"
	"github.com/aretw0/bloom/pkg/domain"
	"golang.org/x/term"
)

// Sequencer is what the runner drives: navigation plus event dispatch.
// *bloom.Router satisfies it.
type Sequencer interface {
	domain.Navigator
	Dispatch(ctx context.Context, ev domain.Event) error
}

// Runner reads console lines and applies them to a Sequencer.
type Runner struct {
	seq     Sequencer
	in      io.Reader
	out     io.Writer
	logger  *slog.Logger
	prompt  *bool
	maxLine int
}

type lineResult struct {
	text string
	err  error
}

// New creates a Runner for seq.
func New(seq Sequencer, opts ...Option) *Runner {
	r := &Runner{
		seq:     seq,
		in:      os.Stdin,
		out:     os.Stdout,
		logger:  logging.NewNop(),
		maxLine: DefaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run navigates to route (when non-empty) and then processes input lines
// until EOF, ":quit", exhaustion of the active session, or ctx is done.
// Exhaustion and EOF end the loop without error.
func (r *Runner) Run(ctx context.Context, route string) error {
	if route != "" {
		if err := r.seq.Goto(ctx, route); err != nil {
			if errors.Is(err, domain.ErrSessionExhausted) {
				r.report(err)
				return nil
			}
			return fmt.Errorf("goto %s: %w", route, err)
		}
	}

	showPrompt := r.showPrompt()
	pumpCtx, stopPump := context.WithCancel(ctx)
	defer stopPump()
	lines := r.pump(pumpCtx)

	for {
		if showPrompt {
			fmt.Fprint(r.out, "> ")
		}

		var res lineResult
		select {
		case <-ctx.Done():
			return ctx.Err()
		case got, ok := <-lines:
			if !ok {
				return nil
			}
			res = got
		}
		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", res.err)
		}

		stop, err := r.Step(ctx, res.text)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExhausted) {
				r.report(err)
				return nil
			}
			r.report(err)
		}
		if stop {
			return nil
		}
	}
}

// Step applies a single line. It reports whether the loop should stop.
func (r *Runner) Step(ctx context.Context, line string) (bool, error) {
	clean, err := SanitizeLine(line, r.maxLine)
	if err != nil {
		return false, err
	}
	cmd, err := ParseLine(clean)
	if err != nil {
		return false, err
	}
	r.logger.Debug("console command", "kind", cmd.Kind, "target", cmd.Event.Target, "event", cmd.Event.Name)

	switch cmd.Kind {
	case CommandNone:
		return false, nil
	case CommandQuit:
		return true, nil
	case CommandGoto:
		return false, r.seq.Goto(ctx, cmd.Route)
	case CommandRender:
		return false, r.seq.Render(ctx)
	case CommandAdvance:
		if _, err := r.seq.Advance(ctx); err != nil {
			return false, err
		}
		return false, r.seq.Render(ctx)
	case CommandRefresh:
		return false, r.seq.Refresh(ctx)
	case CommandDispatch:
		return false, r.seq.Dispatch(ctx, cmd.Event)
	}
	return false, fmt.Errorf("unhandled command kind %d", cmd.Kind)
}

func (r *Runner) report(err error) {
	r.logger.Debug("console error", "err", err)
	fmt.Fprintf(r.out, "error: %v\n", err)
}

// pump reads lines on a goroutine so Run can also watch ctx.
// The goroutine exits at EOF, on the first read error, or once ctx is done
// and it has a line nobody will receive.
func (r *Runner) pump(ctx context.Context) <-chan lineResult {
	ch := make(chan lineResult)
	go func() {
		defer close(ch)
		reader := bufio.NewReader(r.in)
		for {
			text, err := reader.ReadString('\n')
			if text != "" {
				select {
				case ch <- lineResult{text: strings.TrimRight(text, "\r\n")}:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				select {
				case ch <- lineResult{err: err}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()
	return ch
}

func (r *Runner) showPrompt() bool {
	if r.prompt != nil {
		return *r.prompt
	}
	f, ok := r.in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
