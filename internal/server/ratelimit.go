package server

import (
	"sync"
	"time"

	"github.com/candorhq/candor/internal/clock"
)

// rateLimiter is a fixed-window in-memory limiter keyed by caller.
type rateLimiter struct {
	mu     sync.Mutex
	clock  clock.Clock
	limit  int
	window time.Duration
	seen   map[string]*rateWindow
}

type rateWindow struct {
	start time.Time
	count int
}

func newRateLimiter(clk clock.Clock, limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		clock:  clk,
		limit:  limit,
		window: window,
		seen:   make(map[string]*rateWindow),
	}
}

func (r *rateLimiter) Allow(key string) bool {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.seen[key]
	if !ok || now.Sub(w.start) >= r.window {
		r.seen[key] = &rateWindow{start: now, count: 1}
		r.sweep(now)
		return true
	}
	if w.count >= r.limit {
		return false
	}
	w.count++
	return true
}

// sweep drops stale windows; called under the lock.
func (r *rateLimiter) sweep(now time.Time) {
	if len(r.seen) < 1024 {
		return
	}
	for key, w := range r.seen {
		if now.Sub(w.start) >= r.window {
			delete(r.seen, key)
		}
	}
}
