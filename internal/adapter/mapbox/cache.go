package mapbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/quakewatch/quake-data-ingest/internal/geo"
	"github.com/quakewatch/quake-data-ingest/internal/observability"
)

// CachedLocator wraps a CountryLocator with an in-memory LRU cache. Keys are
// coordinates rounded to two decimals (~1 km), which is plenty for country
// attribution and lets nearby aftershocks share an entry.
type CachedLocator struct {
	inner   geo.CountryLocator
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedLocator creates a cache decorator around a locator.
func NewCachedLocator(inner geo.CountryLocator, maxEntries int, metrics *observability.Metrics) *CachedLocator {
	return &CachedLocator{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedLocator) CountryCode(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("%.2f,%.2f", lat, lon)
	if code, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return code, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	code, err := c.inner.CountryCode(ctx, lat, lon)
	if err != nil {
		return code, err
	}
	// Only cache resolved codes so transient "no country" responses (open
	// ocean near a coastline) can be retried.
	if code != "" {
		c.cache.put(key, code)
	}
	return code, nil
}

// lruCache is a simple thread-safe LRU cache for country codes.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value string
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
