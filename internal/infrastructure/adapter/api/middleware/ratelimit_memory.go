package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter is a per-key token bucket for single-instance deployments.
// A key may spend limit requests at once and regains them over window.
type MemoryLimiter struct {
	mu           sync.Mutex
	entries      map[string]*limiterEntry
	every        rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiterOption customizes a MemoryLimiter
type MemoryLimiterOption func(*MemoryLimiter)

// WithIdleTTL sets how long an unused key is kept
func WithIdleTTL(d time.Duration) MemoryLimiterOption {
	return func(m *MemoryLimiter) { m.idleTTL = d }
}

// WithCleanupEvery sets the janitor interval
func WithCleanupEvery(d time.Duration) MemoryLimiterOption {
	return func(m *MemoryLimiter) { m.cleanupEvery = d }
}

// WithClock replaces the wall clock, for tests
func WithClock(now func() time.Time) MemoryLimiterOption {
	return func(m *MemoryLimiter) { m.now = now }
}

// NewMemoryLimiter creates a limiter allowing limit requests per window for each key
func NewMemoryLimiter(limit int, window time.Duration, opts ...MemoryLimiterOption) *MemoryLimiter {
	m := &MemoryLimiter{
		entries:      make(map[string]*limiterEntry),
		every:        rate.Every(window / time.Duration(limit)),
		burst:        limit,
		idleTTL:      window * 2,
		cleanupEvery: time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allow implements Limiter
func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	ent, ok := m.entries[key]
	if !ok {
		ent = &limiterEntry{lim: rate.NewLimiter(m.every, m.burst)}
		m.entries[key] = ent
	}
	ent.lastSeen = now
	m.mu.Unlock()

	return ent.lim.AllowN(now, 1), nil
}

// Cleanup drops keys idle for longer than the idle TTL
func (m *MemoryLimiter) Cleanup() {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	for k, ent := range m.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(m.entries, k)
		}
	}
}

// Len returns the number of tracked keys
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// StartJanitor evicts idle keys until ctx is cancelled
func (m *MemoryLimiter) StartJanitor(ctx context.Context) {
	if m.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(m.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Cleanup()
			}
		}
	}()
}
