package listing

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const memCacheSweepFreq = time.Minute

type memCacheEntry struct {
	value     *PageResult
	expiresAt time.Time
}

// MemCache is the in-process fallback cache used when Redis is not
// configured. Tag invalidation is a per-kind version counter folded
// into the stored key, so stale generations simply stop being
// addressable and age out on the next sweep.
type MemCache struct {
	mu        sync.Mutex
	items     map[string]*memCacheEntry
	versions  map[string]uint64
	lastSweep time.Time
	now       func() time.Time
}

func NewMemCache() *MemCache {
	return &MemCache{
		items:    make(map[string]*memCacheEntry),
		versions: make(map[string]uint64),
		now:      time.Now,
	}
}

func (c *MemCache) Get(_ context.Context, kind, key string) (*PageResult, bool) {
	if key == "" {
		return nil, false
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeSweepLocked(now)

	entry, ok := c.items[c.versionedKeyLocked(kind, key)]
	if !ok {
		return nil, false
	}
	if now.After(entry.expiresAt) {
		delete(c.items, c.versionedKeyLocked(kind, key))
		return nil, false
	}
	return entry.value, true
}

func (c *MemCache) Set(_ context.Context, kind, key string, value *PageResult, ttl time.Duration) {
	if key == "" || ttl <= 0 {
		return
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeSweepLocked(now)

	c.items[c.versionedKeyLocked(kind, key)] = &memCacheEntry{
		value:     value,
		expiresAt: now.Add(ttl),
	}
}

func (c *MemCache) Invalidate(_ context.Context, kind string) {
	c.mu.Lock()
	c.versions[kind]++
	c.mu.Unlock()
}

func (c *MemCache) versionedKeyLocked(kind, key string) string {
	return fmt.Sprintf("%s:v%d:%s", kind, c.versions[kind], key)
}

func (c *MemCache) maybeSweepLocked(now time.Time) {
	if !c.lastSweep.IsZero() && now.Sub(c.lastSweep) < memCacheSweepFreq {
		return
	}
	for key, entry := range c.items {
		if now.After(entry.expiresAt) {
			delete(c.items, key)
		}
	}
	c.lastSweep = now
}
