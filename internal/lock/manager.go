// Package lock serializes work on a single entity across goroutines and, with a
// Locker, across service replicas
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/honeycarbs/plugplayers/pkg/logging"
)

// UnlockFunc releases a distributed lock
type UnlockFunc func(ctx context.Context) error

// Locker acquires a lock shared between processes
type Locker interface {
	// Lock blocks until key is held or ctx is done
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// Manager hands out per-key mutexes. Entries are reference counted and removed
// once nobody holds or waits on them
type Manager struct {
	mu    sync.Mutex
	locks map[string]*entry

	locker Locker
	ttl    time.Duration
	logger *logging.Logger
}

// Option configures Manager
type Option func(*Manager)

// WithLocker adds a distributed lock taken after the local mutex
func WithLocker(locker Locker, ttl time.Duration) Option {
	return func(m *Manager) {
		m.locker = locker
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for release failures
func WithLogger(logger *logging.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager builds a Manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:  make(map[string]*entry),
		ttl:    30 * time.Second,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key joins an entity kind and id into a lock key
func Key(kind, id string) string {
	return kind + ":" + id
}

func (m *Manager) acquire(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.locks[key]
	if !ok {
		e = &entry{}
		m.locks[key] = e
	}
	e.refs++
	return e
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock runs fn while holding the lock for key
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	e := m.acquire(key)
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		m.release(key)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.ttl)
		if err != nil {
			return fmt.Errorf("lock: acquire %q: %w", key, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release distributed lock, it will expire via TTL", "key", key, "err", err)
			}
		}()
	}

	return fn(ctx)
}

// held reports the number of live entries, for tests
func (m *Manager) held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
