package di

import (
	"context"
	"sync"
	"time"

	"ecnelisfly/application/ports"
)

// CacheObserver counts hits and misses. *observability.Metrics satisfies it.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

// InMemoryCache is a mutex-guarded TTL cache implementing ports.Cache
type InMemoryCache struct {
	mu       sync.RWMutex
	items    map[string]cacheItem
	observer CacheObserver
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

var _ ports.Cache = (*InMemoryCache)(nil)

// NewInMemoryCache creates a new in-memory cache. observer may be nil.
// Close stops the background sweep.
func NewInMemoryCache(observer CacheObserver) *InMemoryCache {
	cache := &InMemoryCache{
		items:    make(map[string]cacheItem),
		observer: observer,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go cache.cleanupExpired(time.Minute)

	return cache
}

// Get retrieves a value from cache
func (c *InMemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || c.now().After(item.expiresAt) {
		if c.observer != nil {
			c.observer.CacheMiss()
		}
		return nil, false, nil
	}

	if c.observer != nil {
		c.observer.CacheHit()
	}
	return item.value, true, nil
}

// Set stores a copy of value for ttl
func (c *InMemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:     stored,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete removes a value from cache
func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// Close stops the background sweep
func (c *InMemoryCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// cleanupExpired periodically removes expired items
func (c *InMemoryCache) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
