package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter allows at most limit requests per key within any
// window of the configured size
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string][]time.Time
	limit      int
	windowSize time.Duration
	now        func() time.Time
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windows:    make(map[string][]time.Time),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
	}
}

// NewPerMinuteLimiter is a sliding window of one minute
func NewPerMinuteLimiter(requestsPerMinute int) *SlidingWindowLimiter {
	return NewSlidingWindowLimiter(requestsPerMinute, time.Minute)
}

// Allow checks if a request is allowed and records it when it is
func (l *SlidingWindowLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)
	if len(recent) >= l.limit {
		l.windows[key] = recent
		return false, nil
	}
	l.windows[key] = append(recent, now)
	return true, nil
}

// Remaining returns how many requests key may still make in the current window
func (l *SlidingWindowLimiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	left := l.limit - len(l.prune(key, l.now()))
	if left < 0 {
		return 0
	}
	return left
}

// Reset resets the rate limit for a key
func (l *SlidingWindowLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
	return nil
}

// prune drops timestamps outside the window; keys with none left are removed.
// Callers hold l.mu.
func (l *SlidingWindowLimiter) prune(key string, now time.Time) []time.Time {
	start := now.Add(-l.windowSize)
	requests := l.windows[key]
	kept := requests[:0]
	for _, t := range requests {
		if t.After(start) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.windows, key)
		return nil
	}
	return kept
}
