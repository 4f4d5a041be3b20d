// Package cache provides a small TTL+LRU cache used by the read endpoints
// and a manager that runs the periodic expiry sweep.
package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cache is the read-through cache used by HTTP handlers.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)

	// Purge drops every entry. Mutating endpoints call this so reads
	// never serve stale totals.
	Purge()

	Size() int
}

// Sweeper is implemented by caches that can drop expired entries.
type Sweeper interface {
	SweepExpired() int
}

// Manager owns the background expiry sweep for all registered caches.
// Register may be called while the sweep is already running.
type Manager struct {
	mu     sync.Mutex
	caches []Sweeper
	logger *slog.Logger
	stop   chan struct{}
	done   chan struct{}
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (m *Manager) Register(c Sweeper) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, c)
}

// StartSweep begins the periodic expiry sweep.
func (m *Manager) StartSweep(interval time.Duration) {
	go m.sweep(interval)
}

func (m *Manager) sweep(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			caches := append([]Sweeper(nil), m.caches...)
			m.mu.Unlock()

			swept := 0
			for _, c := range caches {
				swept += c.SweepExpired()
			}
			if swept > 0 {
				m.logger.Debug("Swept expired cache entries", "count", swept)
			}
		case <-m.stop:
			return
		}
	}
}

// Stop halts the sweep goroutine and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stop)
	<-m.done
}
