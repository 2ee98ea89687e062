package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// cacheKey derives the cache key from the identifying request fields.
func cacheKey(op Operation, language, text string) string {
	h := sha256.New()
	h.Write([]byte(string(op)))
	h.Write([]byte{'|'})
	h.Write([]byte(language))
	h.Write([]byte{'|'})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

type cacheEntry struct {
	result     Result
	insertedAt time.Time
}

// resultCache is a TTL cache bounded by entry count. The oldest entry is
// evicted when the bound is reached. Entries past their TTL are logically
// unreachable on Get even before the background sweep removes them.
type resultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string
	ttl     time.Duration
	max     int
	now     func() time.Time
}

func newResultCache(ttl time.Duration, max int) *resultCache {
	return &resultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
	}
}

// Get returns the cached result if present and within TTL.
func (c *resultCache) Get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Result{}, false
	}
	if c.now().Sub(entry.insertedAt) >= c.ttl {
		return Result{}, false
	}
	return entry.result, true
}

// Set stores a result, evicting the oldest entries past the bound. Eviction
// order follows insertion time, so a rewritten key moves to the tail.
func (c *resultCache) Set(key string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		for i, k := range c.order {
			if k == key {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	} else {
		for len(c.entries) >= c.max && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
	c.order = append(c.order, key)
	c.entries[key] = cacheEntry{result: result, insertedAt: c.now()}
}

// Len reports the current entry count.
func (c *resultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// sweep removes entries whose TTL has elapsed.
func (c *resultCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.order[:0]
	for _, key := range c.order {
		entry, ok := c.entries[key]
		if !ok {
			continue
		}
		if now.Sub(entry.insertedAt) >= c.ttl {
			delete(c.entries, key)
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
}

// StartSweep runs the periodic sweep until the context is cancelled.
func (c *resultCache) StartSweep(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}
