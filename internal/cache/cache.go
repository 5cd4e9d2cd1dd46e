package cache

import (
	"sync"
	"time"

	"tokotopup/internal/metrics"
	"tokotopup/internal/models"
)

// Cache keeps normalized price lists for a short time so that page views
// do not each trigger a supplier request.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheItem
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

type cacheItem struct {
	items     []models.Item
	createdAt time.Time
}

func New(ttl time.Duration, maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Cache{
		entries: make(map[string]cacheItem),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (c *Cache) Get(key string) ([]models.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if ok && c.now().Sub(entry.createdAt) <= c.ttl {
		metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
		return entry.items, true
	}

	metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
	return nil, false
}

func (c *Cache) Set(key string, items []models.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = cacheItem{items: items, createdAt: c.now()}

	metrics.CacheOperations.WithLabelValues("set", "success").Inc()
}

// Invalidate drops every cached list.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheItem)
}

func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestTime.IsZero() || entry.createdAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.createdAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
