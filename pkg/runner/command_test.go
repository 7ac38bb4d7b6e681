package runner

import (
	"testing"

	"github.com/aretw0/bloom/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: CommandNone}},
		{"   ", Command{Kind: CommandNone}},
		{"next", Command{Kind: CommandDispatch, Event: domain.Event{Target: "next", Name: "click"}}},
		{"next name=Ada", Command{Kind: CommandDispatch, Event: domain.Event{
			Target: "next", Name: "click", Form: map[string]string{"name": "Ada"},
		}}},
		{"new:submit buy milk", Command{Kind: CommandDispatch, Event: domain.Event{
			Target: "new", Name: "submit", Value: "buy milk",
		}}},
		{"item-3:delete x=1 3", Command{Kind: CommandDispatch, Event: domain.Event{
			Target: "item-3", Name: "delete", Value: "3", Form: map[string]string{"x": "1"},
		}}},
		{":goto /todos", Command{Kind: CommandGoto, Route: "/todos"}},
		{":render", Command{Kind: CommandRender}},
		{":advance", Command{Kind: CommandAdvance}},
		{":refresh", Command{Kind: CommandRefresh}},
		{":quit", Command{Kind: CommandQuit}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_Errors(t *testing.T) {
	_, err := ParseLine(":bogus")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = ParseLine(":goto")
	assert.Error(t, err)

	_, err = ParseLine(":click")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}
