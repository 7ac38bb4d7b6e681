package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/bloom/pkg/domain"
)

// DefaultEvent is dispatched when a line names only a target.
const DefaultEvent = "click"

// ErrUnknownCommand is returned for meta commands the runner does not know.
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind identifies what a console line asks for.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandDispatch
	CommandGoto
	CommandRender
	CommandAdvance
	CommandRefresh
	CommandQuit
)

// Command is a parsed console line.
type Command struct {
	Kind  CommandKind
	Route string       // CommandGoto
	Event domain.Event // CommandDispatch
}

// ParseLine parses one console line.
//
//	<target>[:<event>] [key=value ...] [value]
//	:goto <route> | :render | :advance | :refresh | :quit
//
// Tokens containing '=' populate Event.Form; the remaining tokens after the
// target are joined with single spaces into Event.Value.
func ParseLine(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: CommandNone}, nil
	}

	if strings.HasPrefix(fields[0], ":") {
		return parseMeta(fields)
	}

	target, name, _ := strings.Cut(fields[0], ":")
	if target == "" {
		return Command{}, fmt.Errorf("missing target in %q", fields[0])
	}
	if name == "" {
		name = DefaultEvent
	}

	ev := domain.Event{Target: target, Name: name}
	var rest []string
	for _, f := range fields[1:] {
		if k, v, ok := strings.Cut(f, "="); ok && k != "" {
			if ev.Form == nil {
				ev.Form = make(map[string]string)
			}
			ev.Form[k] = v
			continue
		}
		rest = append(rest, f)
	}
	ev.Value = strings.Join(rest, " ")

	return Command{Kind: CommandDispatch, Event: ev}, nil
}

func parseMeta(fields []string) (Command, error) {
	switch fields[0] {
	case ":goto", ":g":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf(":goto takes exactly one route")
		}
		return Command{Kind: CommandGoto, Route: fields[1]}, nil
	case ":render", ":r":
		return Command{Kind: CommandRender}, nil
	case ":advance", ":a":
		return Command{Kind: CommandAdvance}, nil
	case ":refresh":
		return Command{Kind: CommandRefresh}, nil
	case ":quit", ":q", ":exit":
		return Command{Kind: CommandQuit}, nil
	}
	return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
}
