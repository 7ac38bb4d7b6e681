package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/bloom/internal/logging"
	"github.com/aretw0/bloom/internal/runtime"
	"github.com/aretw0/bloom/pkg/adapters/memory"
	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/ports"
	"github.com/aretw0/bloom/pkg/registry"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// DefaultIdleTTL bounds how long an unused in-process session is kept.
const DefaultIdleTTL = 30 * time.Minute

// Live is a materialized session: its sequencer and the surface recording what it rendered.
type Live struct {
	Sequencer *runtime.Sequencer
	Surface   *memory.Surface

	lastUsed time.Time
	stored   bool
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	routes *registry.Registry
	store  ports.SnapshotStore

	mu    sync.Mutex            // Global lock for the maps
	locks map[string]*lockEntry // Map of active locks
	live  map[string]*Live      // Sessions that cannot be stored
	idle  time.Duration
	now   func() time.Time

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithIdleTTL sets how long a session that only lives in process may go
// unused before it is dropped (default DefaultIdleTTL).
func WithIdleTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.idle = ttl
		}
	}
}

// WithLogger configures a logger for the Manager and the sequencers it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLifecycleHooks installs hooks on every sequencer the Manager creates.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// NewManager creates a new Session Manager over routes, persisting to store.
func NewManager(routes *registry.Registry, store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		routes:  routes,
		store:   store,
		locks:   make(map[string]*lockEntry),
		live:    make(map[string]*Live),
		lockTTL: 30 * time.Second,
		idle:    DefaultIdleTTL,
		now:     time.Now,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Do runs fn against the session's sequencer under the session lock.
// Resumable sessions are restored from the store on every call and saved
// afterwards; the store is their only copy, so replicas sharing it (and a
// distributed locker) see each other's updates. Sessions whose producer
// cannot be stored stay in process until deleted or idle for longer than
// the idle TTL.
func (m *Manager) Do(ctx context.Context, sessionID string, fn func(context.Context, *Live) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		lv, err := m.materialize(ctx, sessionID)
		if err != nil {
			return err
		}

		fnErr := fn(ctx, lv)

		if lv.Sequencer.Route() == "" {
			// Never navigated: nothing worth keeping.
			m.forget(sessionID)
			return fnErr
		}
		if !lv.Sequencer.Resumable() {
			m.keep(sessionID, lv)
			if lv.stored {
				// Navigated away from a stored page; the old snapshot is stale.
				lv.stored = false
				if err := m.store.Delete(ctx, sessionID); err != nil {
					m.logger.Warn("failed to drop stale snapshot", "session_id", sessionID, "err", err)
				}
			}
			return fnErr
		}

		m.forget(sessionID)
		if err := m.persist(ctx, sessionID, lv); err != nil {
			if fnErr != nil {
				m.logger.Error("failed to persist session", "session_id", sessionID, "err", err)
				return fnErr
			}
			return err
		}
		return fnErr
	})
}

// Snapshot describes a session. Live sessions are captured directly; a
// session whose producer is not resumable yields a snapshot carrying only
// its route and status. Sessions that are neither live nor stored return
// domain.ErrSessionNotFound.
func (m *Manager) Snapshot(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.mu.Lock()
		lv, ok := m.live[sessionID]
		m.mu.Unlock()

		if !ok {
			stored, err := m.store.Load(ctx, sessionID)
			if err != nil {
				return err
			}
			snap = stored
			return nil
		}

		seq := lv.Sequencer
		if seq.Resumable() {
			s, err := seq.Snapshot()
			if err != nil {
				return err
			}
			snap = s
		} else {
			snap = &domain.Snapshot{
				Route:     seq.Route(),
				Status:    seq.Status(),
				UpdatedAt: time.Now().UTC(),
			}
		}
		snap.SessionID = sessionID
		return nil
	})
	return snap, err
}

// Delete drops the live sequencer and the stored snapshot.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.forget(sessionID)
		return m.store.Delete(ctx, sessionID)
	})
}

// List returns the IDs of live and stored sessions, sorted.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	stored, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(stored))
	for _, id := range stored {
		seen[id] = struct{}{}
	}
	m.mu.Lock()
	m.evictIdle()
	for id := range m.live {
		seen[id] = struct{}{}
	}
	m.mu.Unlock()

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// Routes returns the route registry sessions resolve against.
func (m *Manager) Routes() *registry.Registry {
	return m.routes
}

func (m *Manager) materialize(ctx context.Context, sessionID string) (*Live, error) {
	m.mu.Lock()
	m.evictIdle()
	lv, ok := m.live[sessionID]
	m.mu.Unlock()
	if ok {
		return lv, nil
	}

	surface := memory.NewSurface()
	lv = &Live{
		Surface: surface,
		Sequencer: runtime.NewSequencer(m.routes, surface,
			runtime.WithLifecycleHooks(m.hooks),
			runtime.WithLogger(m.logger.With("session_id", sessionID)),
		),
	}

	snap, err := m.store.Load(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		// Fresh session.
	case err != nil:
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	default:
		if err := lv.Sequencer.Restore(ctx, snap); err != nil {
			return nil, fmt.Errorf("failed to restore session %s: %w", sessionID, err)
		}
		lv.stored = true
		m.logger.Debug("session restored from store", "session_id", sessionID, "route", snap.Route)
	}
	return lv, nil
}

func (m *Manager) keep(sessionID string, lv *Live) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lv.lastUsed = m.now()
	m.live[sessionID] = lv
}

// evictIdle drops unused live sessions. Callers must hold m.mu.
func (m *Manager) evictIdle() {
	cutoff := m.now().Add(-m.idle)
	for id, lv := range m.live {
		if e, busy := m.locks[id]; busy && e.refs > 0 {
			continue
		}
		if lv.lastUsed.Before(cutoff) {
			delete(m.live, id)
			m.logger.Debug("idle session evicted", "session_id", id)
		}
	}
}

func (m *Manager) persist(ctx context.Context, sessionID string, lv *Live) error {
	if !lv.Sequencer.Resumable() {
		return nil
	}
	snap, err := lv.Sequencer.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to snapshot session %s: %w", sessionID, err)
	}
	snap.SessionID = sessionID
	if err := m.store.Save(ctx, sessionID, snap); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

func (m *Manager) forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, sessionID)
}
