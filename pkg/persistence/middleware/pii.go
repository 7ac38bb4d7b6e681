package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/ports"
)

// Mask replaces values whose key matches a masking pattern.
const Mask = "***"

type maskMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewMaskMiddleware replaces the values of keys matching any of patterns
// before they reach the store. Nested maps are masked too. The live
// session keeps the real values; a masked snapshot restores with Mask.
func NewMaskMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &maskMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *maskMiddleware) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	masked := *snap
	masked.Values = maskValues(snap.Values, m.patterns)
	return m.next.Save(ctx, sessionID, &masked)
}

func (m *maskMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *maskMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *maskMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// maskValues returns a masked copy; in is left untouched.
func maskValues(in map[string]any, patterns []*regexp.Regexp) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if matchesAny(k, patterns) {
			out[k] = Mask
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			out[k] = maskValues(sub, patterns)
			continue
		}
		out[k] = v
	}
	return out
}

func matchesAny(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
