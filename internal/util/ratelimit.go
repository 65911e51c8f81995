package util

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces calls a fixed interval apart so the scanner's batch
// requests stay inside the upstream per-minute budget. The first call goes
// through immediately.
type RateLimiter struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewRateLimiter allows perMinute calls per minute, evenly spaced.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &RateLimiter{interval: time.Minute / time.Duration(perMinute)}
}

// Wait blocks until the caller's slot arrives or the context is cancelled.
// Each call claims the next slot, so concurrent callers queue in order.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	now := time.Now()
	if rl.next.Before(now) {
		rl.next = now
	}
	wait := rl.next.Sub(now)
	rl.next = rl.next.Add(rl.interval)
	rl.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
