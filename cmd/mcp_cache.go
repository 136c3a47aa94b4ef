package cmd

import (
	"context"
	"sync"
	"time"
)

// mcpCacheKey identifies one capture scope.
type mcpCacheKey struct {
	Title      string
	KeepHeight int
}

type mcpCacheEntry struct {
	scan      *scan
	timestamp time.Time
}

// mcpScanCache keeps recent OCR scans so match after capture_text does not
// hit the OCR service twice.
type mcpScanCache struct {
	mu      sync.Mutex
	entries map[mcpCacheKey]mcpCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// newMCPScanCache creates a new cache. A ttl of 0 disables caching.
func newMCPScanCache(ttl time.Duration) *mcpScanCache {
	return &mcpScanCache{
		entries: make(map[mcpCacheKey]mcpCacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// scanFunc performs a fresh scan.
type scanFunc func(ctx context.Context, s settings) (*scan, error)

// get returns a cached scan within the TTL, otherwise calls fresh.
func (c *mcpScanCache) get(ctx context.Context, s settings, fresh scanFunc) (*scan, error) {
	if c.ttl == 0 {
		return fresh(ctx, s)
	}
	key := mcpCacheKey{Title: s.Title, KeepHeight: s.KeepHeight}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		sc := entry.scan
		c.mu.Unlock()
		return sc, nil
	}
	c.mu.Unlock()

	sc, err := fresh(ctx, s)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = mcpCacheEntry{scan: sc, timestamp: c.now()}
	c.mu.Unlock()
	return sc, nil
}

// invalidateTitle drops every entry for title.
func (c *mcpScanCache) invalidateTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Title == title {
			delete(c.entries, k)
		}
	}
}

// invalidateAll clears the entire cache.
func (c *mcpScanCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[mcpCacheKey]mcpCacheEntry)
}
