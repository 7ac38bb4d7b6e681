package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventGoto      EventType = "goto"
	EventRender    EventType = "render"
	EventAdvance   EventType = "advance"
	EventRefresh   EventType = "refresh"
	EventExhausted EventType = "exhausted"
	EventDiscard   EventType = "discard"
	EventDispatch  EventType = "dispatch"
)

// SessionEvent describes something that happened to an Active Session.
type SessionEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	Route      string    `json:"route"`
	Generation uint64    `json:"generation"`
	Advances   int       `json:"advances"`
	// Target and Name are set for dispatch events only.
	Target string `json:"target,omitempty"`
	Name   string `json:"name,omitempty"`
}

// LifecycleHooks defines callbacks for sequencer observability.
// Hooks run synchronously on the calling goroutine and must not call back into the sequencer.
type LifecycleHooks struct {
	OnGoto      func(context.Context, *SessionEvent)
	OnRender    func(context.Context, *SessionEvent)
	OnAdvance   func(context.Context, *SessionEvent)
	OnRefresh   func(context.Context, *SessionEvent)
	OnExhausted func(context.Context, *SessionEvent)
	OnDiscard   func(context.Context, *SessionEvent)
	OnDispatch  func(context.Context, *SessionEvent)
}

// Emit routes ev to the matching hook, if set.
func (h LifecycleHooks) Emit(ctx context.Context, ev *SessionEvent) {
	var fn func(context.Context, *SessionEvent)
	switch ev.Type {
	case EventGoto:
		fn = h.OnGoto
	case EventRender:
		fn = h.OnRender
	case EventAdvance:
		fn = h.OnAdvance
	case EventRefresh:
		fn = h.OnRefresh
	case EventExhausted:
		fn = h.OnExhausted
	case EventDiscard:
		fn = h.OnDiscard
	case EventDispatch:
		fn = h.OnDispatch
	}
	if fn != nil {
		fn(ctx, ev)
	}
}
