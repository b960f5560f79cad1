package fetch

import (
	"strings"
	"sync"
	"time"
)

// Stats is a snapshot of cumulative cache counters since construction.
type Stats struct {
	Size           int     `json:"size"`
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	HitRatePercent float64 `json:"hit_rate_percent"`
	TTLSeconds     int     `json:"ttl_seconds"`
	MaxSize        int     `json:"max_size"`
}

type cacheEntry struct {
	page    *Page
	created time.Time
}

// Cache memoizes successful page fetches, bounded by TTL and entry count.
// Keys are case-insensitive page titles. Eviction is FIFO by insertion
// order, unaffected by reads.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]cacheEntry
	order   []string // insertion order, oldest first
	hits    int64
	misses  int64
}

// NewCache creates a cache holding at most maxSize entries for up to ttl
// each. A non-positive maxSize is clamped to 1.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached page for key if present and not expired. A stale
// entry is removed on access. Key comparison is case-insensitive.
func (c *Cache) Get(key string) (*Page, bool) {
	k := strings.ToLower(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Since(e.created) >= c.ttl {
		c.remove(k)
		c.misses++
		return nil, false
	}
	c.hits++
	return e.page, true
}

// Set inserts or replaces the entry for key, evicting the oldest-inserted
// entry when the cache would exceed its maximum size.
func (c *Cache) Set(key string, page *Page) {
	k := strings.ToLower(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[k]; ok {
		c.remove(k)
	}
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		c.remove(c.order[0])
	}
	c.entries[k] = cacheEntry{page: page, created: time.Now()}
	c.order = append(c.order, k)
}

// Stats reports cumulative counters. Counters are never reset.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Size:       len(c.entries),
		Hits:       c.hits,
		Misses:     c.misses,
		TTLSeconds: int(c.ttl / time.Second),
		MaxSize:    c.maxSize,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRatePercent = float64(c.hits) / float64(total) * 100
	}
	return s
}

// remove deletes k from the map and the insertion-order list. Caller holds mu.
func (c *Cache) remove(k string) {
	delete(c.entries, k)
	for i, o := range c.order {
		if o == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
