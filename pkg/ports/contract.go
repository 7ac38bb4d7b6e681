package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/bloom/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newSnapshot := func(id string) *domain.Snapshot {
		return &domain.Snapshot{
			SessionID:  id,
			Route:      "/edit-profile",
			Status:     domain.StatusSuspended,
			Position:   1,
			Generation: 3,
			Advances:   1,
			Values:     map[string]any{"name": "Ada", "count": 42},
			UpdatedAt:  time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot(sessionID)

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Route, loaded.Route)
		assert.Equal(t, snap.Status, loaded.Status)
		assert.Equal(t, snap.Position, loaded.Position)
		assert.Equal(t, snap.Generation, loaded.Generation)
		assert.Equal(t, "Ada", loaded.Values["name"])
		// JSON-backed stores turn ints into float64; only check presence.
		assert.NotNil(t, loaded.Values["count"])
		assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Load returns an isolated copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Values["name"] = "mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", again.Values["name"])
	})

	t.Run("Nested values are not shared", func(t *testing.T) {
		id := sessionID + "-nested"
		defer func() { _ = store.Delete(ctx, id) }()

		addr := map[string]any{"city": "Lisbon"}
		tags := []any{"a", "b"}
		snap := newSnapshot(id)
		snap.Values["addr"] = addr
		snap.Values["tags"] = tags
		require.NoError(t, store.Save(ctx, id, snap))

		addr["city"] = "changed-by-saver"
		tags[0] = "changed-by-saver"

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loadedAddr, ok := loaded.Values["addr"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Lisbon", loadedAddr["city"])
		loadedTags, ok := loaded.Values["tags"].([]any)
		require.True(t, ok)
		assert.Equal(t, "a", loadedTags[0])

		loadedAddr["city"] = "changed-by-reader"
		loadedTags[0] = "changed-by-reader"

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Lisbon", again.Values["addr"].(map[string]any)["city"])
		assert.Equal(t, "a", again.Values["tags"].([]any)[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, newSnapshot(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, newSnapshot(id1))
		_ = store.Save(ctx, id2, newSnapshot(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
