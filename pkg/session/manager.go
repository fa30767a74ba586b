package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oolestudio/tamashi/internal/logging"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed session lock is held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active per-session locks

	smu      sync.Mutex
	sessions map[string]*Session

	locker  ports.DistributedLocker // optional
	lockTTL time.Duration
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager and its sessions.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLifecycleHooks installs hooks on every session store.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithClock overrides the clock used for idle eviction.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new session manager with the given persistence store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*Session),
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(),
		now:      time.Now,
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

// Open returns the live session, restoring its last snapshot from the store
// when it is not live yet. Unknown IDs start an empty session.
func (m *Manager) Open(ctx context.Context, sessionID string) (*Session, error) {
	var sess *Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if sess = m.live(sessionID); sess != nil {
			sess.touch()
			return nil
		}

		state, err := m.store.Load(ctx, sessionID)
		if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		sess = m.newSession(sessionID, state)
		m.logger.Debug("session opened", "session_id", sessionID, "restored", state != nil)
		return nil
	})
	return sess, err
}

// Get returns a live or persisted session, or domain.ErrSessionNotFound.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	var sess *Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if sess = m.live(sessionID); sess != nil {
			sess.touch()
			return nil
		}
		state, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		sess = m.newSession(sessionID, state)
		return nil
	})
	return sess, err
}

// Close drops the live session. Its snapshot stays in the store.
func (m *Manager) Close(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.drop(sessionID)
		return nil
	})
}

// Delete drops the live session and removes its snapshot.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.drop(sessionID)
		return m.store.Delete(ctx, sessionID)
	})
}

// List returns persisted and live session IDs, sorted and deduplicated.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	stored, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(stored))
	ids := make([]string, 0, len(stored))
	for _, id := range stored {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	m.smu.Lock()
	for id := range m.sessions {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	m.smu.Unlock()

	sort.Strings(ids)
	return ids, nil
}

// Evict drops live sessions that have been idle for at least maxIdle and have
// no watchers. Their snapshots stay in the store and the next Open or Get
// restores them. It returns the number of sessions dropped.
func (m *Manager) Evict(maxIdle time.Duration) int {
	m.smu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.smu.Unlock()

	evicted := 0
	for _, id := range ids {
		entry := m.acquire(id)
		entry.mu.Lock()
		if sess := m.live(id); sess != nil && sess.idle(m.now(), maxIdle) {
			m.drop(id)
			evicted++
		}
		entry.mu.Unlock()
		m.release(id)
	}
	if evicted > 0 {
		m.logger.Debug("evicted idle sessions", "count", evicted)
	}
	return evicted
}

// RunEviction calls Evict every interval until ctx is done.
func (m *Manager) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Evict(maxIdle)
		}
	}
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

func (m *Manager) live(sessionID string) *Session {
	m.smu.Lock()
	defer m.smu.Unlock()
	return m.sessions[sessionID]
}

func (m *Manager) newSession(sessionID string, state *domain.State) *Session {
	sess := newSession(m, sessionID, state)
	m.smu.Lock()
	m.sessions[sessionID] = sess
	m.smu.Unlock()
	return sess
}

func (m *Manager) drop(sessionID string) {
	m.smu.Lock()
	sess, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.smu.Unlock()
	if ok {
		sess.projection.Close()
	}
}
