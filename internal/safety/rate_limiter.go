package safety

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket refilled once per window. The MEXC
// contract API allows 20 requests per 2 second window per endpoint
// group, which maps to NewRateLimiter("mexc", 20, 2*time.Second).
type RateLimiter struct {
	name       string
	capacity   int
	window     time.Duration
	tokens     int
	lastRefill time.Time
	mutex      sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing capacity operations
// per window. The bucket starts full.
func NewRateLimiter(name string, capacity int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		name:       name,
		capacity:   capacity,
		window:     window,
		tokens:     capacity,
		lastRefill: time.Now(),
	}
}

// Allow reports whether one operation may proceed now.
func (rl *RateLimiter) Allow() bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refill()
	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until an operation is allowed or the context is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if rl.Allow() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rl.retryInterval()):
		}
	}
}

// refill resets the bucket when a full window has elapsed. Caller holds
// the mutex.
func (rl *RateLimiter) refill() {
	now := time.Now()
	if now.Sub(rl.lastRefill) >= rl.window {
		rl.tokens = rl.capacity
		rl.lastRefill = now
	}
}

// retryInterval is how long Wait sleeps between attempts: a fraction of
// the window so a freed slot is picked up promptly.
func (rl *RateLimiter) retryInterval() time.Duration {
	interval := rl.window / 10
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	return interval
}

// Stats is a point-in-time view of a limiter, used by the status report.
type Stats struct {
	Name      string
	Capacity  int
	Remaining int
	Window    time.Duration
}

// GetStats returns the limiter's current state.
func (rl *RateLimiter) GetStats() Stats {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refill()
	return Stats{
		Name:      rl.name,
		Capacity:  rl.capacity,
		Remaining: rl.tokens,
		Window:    rl.window,
	}
}
