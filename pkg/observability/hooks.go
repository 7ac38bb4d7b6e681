package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/bloom/pkg/domain"
)

// LogHooks returns hooks that log every lifecycle event at debug level,
// and exhaustion at info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	debug := func(ctx context.Context, e *domain.SessionEvent) {
		logger.DebugContext(ctx, string(e.Type),
			"route", e.Route,
			"generation", e.Generation,
			"advances", e.Advances,
		)
	}
	return domain.LifecycleHooks{
		OnGoto:    debug,
		OnRender:  debug,
		OnAdvance: debug,
		OnRefresh: debug,
		OnDiscard: debug,
		OnDispatch: func(ctx context.Context, e *domain.SessionEvent) {
			logger.DebugContext(ctx, "dispatch", "route", e.Route, "target", e.Target, "event", e.Name)
		},
		OnExhausted: func(ctx context.Context, e *domain.SessionEvent) {
			logger.InfoContext(ctx, "session exhausted", "route", e.Route, "advances", e.Advances)
		},
	}
}

// Compose returns hooks that call each of the given hooks in order.
func Compose(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	fanout := func(pick func(domain.LifecycleHooks) func(context.Context, *domain.SessionEvent)) func(context.Context, *domain.SessionEvent) {
		var fns []func(context.Context, *domain.SessionEvent)
		for _, h := range all {
			if fn := pick(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(ctx context.Context, e *domain.SessionEvent) {
			for _, fn := range fns {
				fn(ctx, e)
			}
		}
	}
	return domain.LifecycleHooks{
		OnGoto:      fanout(func(h domain.LifecycleHooks) func(context.Context, *domain.SessionEvent) { return h.OnGoto }),
		OnRender:    fanout(func(h domain.LifecycleHooks) func(context.Context, *domain.SessionEvent) { return h.OnRender }),
		OnAdvance:   fanout(func(h domain.LifecycleHooks) func(context.Context, *domain.SessionEvent) { return h.OnAdvance }),
		OnRefresh:   fanout(func(h domain.LifecycleHooks) func(context.Context, *domain.SessionEvent) { return h.OnRefresh }),
		OnExhausted: fanout(func(h domain.LifecycleHooks) func(context.Context, *domain.SessionEvent) { return h.OnExhausted }),
		OnDiscard:   fanout(func(h domain.LifecycleHooks) func(context.Context, *domain.SessionEvent) { return h.OnDiscard }),
		OnDispatch:  fanout(func(h domain.LifecycleHooks) func(context.Context, *domain.SessionEvent) { return h.OnDispatch }),
	}
}
