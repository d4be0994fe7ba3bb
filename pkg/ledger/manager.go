package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/anurags10/medibook/internal/logging"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed slot lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager guards booking writes with per-key locks.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.BookingStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
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

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.BookingStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SlotKey names the lock that covers one day's schedule.
// Slots of different types overlap, so all writes on a date share a key.
func SlotKey(date string) string {
	return "slot:" + date
}

func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Get loads a booking without locking.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return m.store.Get(ctx, id)
}

// ListByDate loads the bookings of a day without locking.
func (m *Manager) ListByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	return m.store.ListByDate(ctx, date)
}

// Store returns the underlying booking store.
func (m *Manager) Store() ports.BookingStore {
	return m.store
}

// WithLock runs fn while holding the locks for every key, acquired in sorted
// order so that two writers never wait on each other.
func (m *Manager) WithLock(ctx context.Context, keys []string, fn func(context.Context) error) error {
	keys = sortedUnique(keys)
	if len(keys) == 0 {
		return fn(ctx)
	}
	return m.withKey(ctx, keys[0], func(ctx context.Context) error {
		return m.WithLock(ctx, keys[1:], fn)
	})
}

func (m *Manager) withKey(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func sortedUnique(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
