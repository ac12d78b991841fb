package memory

import (
	"context"
	"sync"
	"time"
)

// Locker is a process-local ports.Locker. Holders that outlive their TTL
// lose the lock to the next waiter.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*heldLock
}

type heldLock struct {
	token   uint64
	expires time.Time
	freed   chan struct{}
}

var lockTokens struct {
	sync.Mutex
	next uint64
}

// NewLocker creates an empty locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*heldLock)}
}

// Acquire blocks until key is free, ctx is done, or the holder expires.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	for {
		l.mu.Lock()
		held, busy := l.locks[key]
		if busy && time.Now().After(held.expires) {
			delete(l.locks, key)
			close(held.freed)
			busy = false
		}
		if !busy {
			lock := &heldLock{
				token:   nextToken(),
				expires: time.Now().Add(ttl),
				freed:   make(chan struct{}),
			}
			l.locks[key] = lock
			l.mu.Unlock()
			return l.releaser(key, lock.token), nil
		}
		wait := time.Until(held.expires)
		freed := held.freed
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-freed:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (l *Locker) releaser(key string, token uint64) func(context.Context) error {
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if held, ok := l.locks[key]; ok && held.token == token {
				delete(l.locks, key)
				close(held.freed)
			}
		})
		return nil
	}
}

func nextToken() uint64 {
	lockTokens.Lock()
	defer lockTokens.Unlock()
	lockTokens.next++
	return lockTokens.next
}
