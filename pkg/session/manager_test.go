package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/bloom/pkg/adapters/memory"
	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/dsl"
	"github.com/aretw0/bloom/pkg/ports"
	"github.com/aretw0/bloom/pkg/registry"
	"github.com/aretw0/bloom/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterRoutes(t *testing.T) *registry.Registry {
	t.Helper()
	routes := registry.NewRegistry()
	require.NoError(t, routes.Register("/counter", dsl.New().
		Init(func(st *domain.State) { st.Set("n", 0) }).
		Step(func(st *domain.State) *domain.View {
			return dsl.El("p", dsl.ID("count"), dsl.Text(st.String("n")),
				dsl.On("click", func(ctx context.Context, nav domain.Navigator, ev domain.Event) error {
					n, _ := st.Get("n")
					st.Set("n", toInt(n)+1)
					return nav.Refresh(ctx)
				}))
		}).
		Loop().
		MustBuild()))
	require.NoError(t, routes.Register("/opaque", func() domain.Producer {
		return domain.ProducerFunc(func(st *domain.State) (*domain.View, bool) {
			return dsl.Txt("opaque"), true
		})
	}))
	return routes
}

// toInt accepts both live ints and float64 values restored from JSON stores.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func click(ctx context.Context, lv *session.Live) error {
	return lv.Sequencer.Dispatch(ctx, domain.Event{Target: "count", Name: "click"})
}

func TestManager_PersistsAndRestores(t *testing.T) {
	routes := counterRoutes(t)
	store := memory.NewStore()
	ctx := context.Background()

	mgr := session.NewManager(routes, store)
	require.NoError(t, mgr.Do(ctx, "s1", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Goto(ctx, "/counter")
	}))
	require.NoError(t, mgr.Do(ctx, "s1", click))

	snap, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/counter", snap.Route)
	assert.Equal(t, 1, snap.Values["n"])

	// A second manager (another replica, or after a restart) picks it up.
	other := session.NewManager(routes, store)
	var text string
	require.NoError(t, other.Do(ctx, "s1", func(ctx context.Context, lv *session.Live) error {
		if err := click(ctx, lv); err != nil {
			return err
		}
		text = lv.Surface.Last().Children[0].Text
		return nil
	}))
	assert.Equal(t, "2", text)
}

// Replicas share one store and alternate on the same session; every click
// must build on the one before it, whichever replica served it.
func TestManager_ReplicasSeeEachOthersUpdates(t *testing.T) {
	routes := counterRoutes(t)
	store := memory.NewStore()
	locker := &countingLocker{}
	ctx := context.Background()

	a := session.NewManager(routes, store, session.WithLocker(locker))
	b := session.NewManager(routes, store, session.WithLocker(locker))

	require.NoError(t, a.Do(ctx, "shared", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Goto(ctx, "/counter")
	}))
	require.NoError(t, a.Do(ctx, "shared", click))
	require.NoError(t, b.Do(ctx, "shared", click))
	require.NoError(t, a.Do(ctx, "shared", click))
	require.NoError(t, b.Do(ctx, "shared", click))

	snap, err := store.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, 4, toInt(snap.Values["n"]))

	// A session deleted through one replica is gone for the other.
	require.NoError(t, b.Delete(ctx, "shared"))
	err = a.Do(ctx, "shared", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Render(ctx)
	})
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestManager_LeavingStoredPageDropsSnapshot(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(counterRoutes(t), store)
	ctx := context.Background()

	require.NoError(t, mgr.Do(ctx, "s1", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Goto(ctx, "/counter")
	}))
	require.NoError(t, mgr.Do(ctx, "s1", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Goto(ctx, "/opaque")
	}))

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	snap, err := mgr.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/opaque", snap.Route)
}

func TestManager_NonResumableSessionsStayLive(t *testing.T) {
	routes := counterRoutes(t)
	store := memory.NewStore()
	mgr := session.NewManager(routes, store)
	ctx := context.Background()

	require.NoError(t, mgr.Do(ctx, "op", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Goto(ctx, "/opaque")
	}))

	_, err := store.Load(ctx, "op")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"op"}, ids)

	require.NoError(t, mgr.Do(ctx, "op", func(ctx context.Context, lv *session.Live) error {
		assert.Equal(t, "/opaque", lv.Sequencer.Route())
		return nil
	}))
}

func TestManager_UntouchedSessionsAreForgotten(t *testing.T) {
	mgr := session.NewManager(counterRoutes(t), memory.NewStore())
	ctx := context.Background()

	err := mgr.Do(ctx, "ghost", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Render(ctx)
	})
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestManager_Delete(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(counterRoutes(t), store)
	ctx := context.Background()

	require.NoError(t, mgr.Do(ctx, "s1", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Goto(ctx, "/counter")
	}))
	require.NoError(t, mgr.Delete(ctx, "s1"))

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	err = mgr.Do(ctx, "s1", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Render(ctx)
	})
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

// Concurrent clicks on one session must be serialized; lost updates would show
// up as a final count below the number of clicks.
func TestManager_SerializesPerSession(t *testing.T) {
	mgr := session.NewManager(counterRoutes(t), memory.NewStore())
	ctx := context.Background()
	require.NoError(t, mgr.Do(ctx, "race", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Goto(ctx, "/counter")
	}))

	const clicks = 20
	var wg sync.WaitGroup
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, mgr.Do(ctx, "race", click))
		}()
	}
	wg.Wait()

	snap, err := mgr.Store().Load(ctx, "race")
	require.NoError(t, err)
	assert.Equal(t, clicks, snap.Values["n"])
}

type countingLocker struct {
	mu    sync.Mutex
	locks int
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.locks++
	l.mu.Unlock()
	return func(context.Context) error { return nil }, nil
}

func TestManager_UsesDistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	mgr := session.NewManager(counterRoutes(t), memory.NewStore(), session.WithLocker(locker))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = mgr.Do(ctx, fmt.Sprintf("s%d", i), func(ctx context.Context, lv *session.Live) error { return nil })
	}
	assert.Equal(t, 3, locker.locks)
}

func TestManager_Snapshot(t *testing.T) {
	mgr := session.NewManager(counterRoutes(t), memory.NewStore())
	ctx := context.Background()

	_, err := mgr.Snapshot(ctx, "none")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, mgr.Do(ctx, "c", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Goto(ctx, "/counter")
	}))
	snap, err := mgr.Snapshot(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "c", snap.SessionID)
	assert.Equal(t, domain.StatusSuspended, snap.Status)
	assert.Equal(t, 0, snap.Values["n"])

	require.NoError(t, mgr.Do(ctx, "o", func(ctx context.Context, lv *session.Live) error {
		return lv.Sequencer.Goto(ctx, "/opaque")
	}))
	snap, err = mgr.Snapshot(ctx, "o")
	require.NoError(t, err)
	assert.Equal(t, "/opaque", snap.Route)
	assert.Equal(t, domain.StatusSuspended, snap.Status)
	assert.Empty(t, snap.Values)
}
