package dashboard

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// RenderCache memoizes rendered chart HTML.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

const defaultChartCacheLimit = 512

// ChartCache keeps rendered charts for a fixed TTL. Concurrent misses on the
// same key share one render. A TTL of zero or less disables caching.
type ChartCache struct {
	ttl   time.Duration
	limit int
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]cachedChart
	hits    uint64
	misses  uint64
}

type cachedChart struct {
	html    string
	expires time.Time
}

// ChartCacheStats is a point-in-time view of cache usage.
type ChartCacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// ChartCacheOption tunes a ChartCache.
type ChartCacheOption func(*ChartCache)

// WithCacheLimit caps stored charts. When full, the entry closest to expiry
// is dropped.
func WithCacheLimit(n int) ChartCacheOption {
	return func(c *ChartCache) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithCacheClock replaces time.Now.
func WithCacheClock(now func() time.Time) ChartCacheOption {
	return func(c *ChartCache) {
		if now != nil {
			c.now = now
		}
	}
}

func NewChartCache(ttl time.Duration, opts ...ChartCacheOption) *ChartCache {
	c := &ChartCache{
		ttl:     ttl,
		limit:   defaultChartCacheLimit,
		now:     time.Now,
		entries: make(map[string]cachedChart),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.ttl <= 0 {
		return render()
	}
	if html, ok := c.lookup(key); ok {
		return html, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		html, err := render()
		if err != nil {
			return "", err
		}
		c.store(key, html)
		return html, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Stats reports entry count and hit/miss totals.
func (c *ChartCache) Stats() ChartCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChartCacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

func (c *ChartCache) lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if ok && c.now().Before(entry.expires) {
		c.hits++
		return entry.html, true
	}
	if ok {
		delete(c.entries, key)
	}
	c.misses++
	return "", false
}

func (c *ChartCache) store(key, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.limit {
		c.evict(now)
	}
	c.entries[key] = cachedChart{html: html, expires: now.Add(c.ttl)}
}

// evict drops expired entries, or the one expiring first when none have.
func (c *ChartCache) evict(now time.Time) {
	var (
		oldest    string
		oldestExp time.Time
	)
	for key, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, key)
			continue
		}
		if oldest == "" || entry.expires.Before(oldestExp) {
			oldest, oldestExp = key, entry.expires
		}
	}
	if len(c.entries) >= c.limit && oldest != "" {
		delete(c.entries, oldest)
	}
}

// configHash is a stable digest of a widget configuration. encoding/json sorts
// map keys, so equal maps hash equally. It reports false when cfg cannot be
// encoded, in which case callers must not use it as a cache key.
func configHash(cfg map[string]any) (string, bool) {
	if len(cfg) == 0 {
		return "empty", true
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", false
	}
	return digest(b), true
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:12])
}
