// Package ratelimit enforces cooldown windows for repeatable on-demand
// queries. It is independent of the delivery ledger and never blocks an
// event-driven alert.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is the cooldown contract. Implementations are injected so a
// multi-instance deployment can back it with a TTL-capable external store;
// the in-memory implementation is best-effort and process-local.
type Limiter interface {
	// Allow reports whether a request for (userID, ticker) is permitted.
	Allow(userID, ticker string) bool
	// Record registers a request for (userID, ticker).
	Record(userID, ticker string)
}

// MemoryLimiter is a process-local Limiter. State is lost on restart; that
// is an accepted tradeoff for a limiter that protects upstream APIs, not
// correctness.
type MemoryLimiter struct {
	cooldown time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

// NewMemoryLimiter creates an in-memory limiter with the given cooldown.
func NewMemoryLimiter(cooldown time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		cooldown: cooldown,
		now:      time.Now,
		last:     make(map[string]time.Time),
	}
}

// Allow returns true iff no request for the pair was recorded within the
// cooldown window.
func (l *MemoryLimiter) Allow(userID, ticker string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.last[key(userID, ticker)]
	if !ok {
		return true
	}
	return l.now().Sub(last) >= l.cooldown
}

// Record registers a request and opportunistically prunes expired entries.
func (l *MemoryLimiter) Record(userID, ticker string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.last[key(userID, ticker)] = now

	if len(l.last) > 1024 {
		for k, t := range l.last {
			if now.Sub(t) >= l.cooldown {
				delete(l.last, k)
			}
		}
	}
}

func key(userID, ticker string) string {
	return userID + "|" + ticker
}
