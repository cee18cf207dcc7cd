package rulebook

import (
	"container/list"
	"sync"
	"time"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// cacheEntry is one cached resource: the primary entities and their fluff
// companion, stored together so the LRU bound counts resource keys, not
// payloads. The two are read with different TTLs against the shared
// fetchedAt.
type cacheEntry struct {
	key       string
	entities  []rules.RawEntity
	fluff     map[string]rules.RawEntity
	fetchedAt time.Time
}

// resourceCache is an LRU-bounded cache of fetched resources with a
// per-key generation counter used to fence concurrent refreshes: a fetch
// result is stored only if no newer request for the same key was issued
// after it started.
type resourceCache struct {
	mu          sync.Mutex
	maxEntries  int
	order       *list.List // front = most recently used
	entries     map[string]*list.Element
	generations map[string]uint64
}

func newResourceCache(maxEntries int) *resourceCache {
	return &resourceCache{
		maxEntries:  maxEntries,
		order:       list.New(),
		entries:     make(map[string]*list.Element),
		generations: make(map[string]uint64),
	}
}

// nextGeneration issues a fence token for a new fetch of key
func (c *resourceCache) nextGeneration(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[key]++
	return c.generations[key]
}

// get returns the cached entities for key unless the entry is older than ttl
func (c *resourceCache) get(key string, now time.Time, ttl time.Duration) ([]rules.RawEntity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if now.Sub(entry.fetchedAt) > ttl {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return entry.entities, true
}

// getFluff returns the cached fluff index for a primary key, or an empty
// index when the entry is missing or past the fluff TTL.
func (c *resourceCache) getFluff(key string, now time.Time, ttl time.Duration) (map[string]rules.RawEntity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return map[string]rules.RawEntity{}, false
	}
	entry := elem.Value.(*cacheEntry)
	if now.Sub(entry.fetchedAt) > ttl {
		return map[string]rules.RawEntity{}, false
	}
	c.order.MoveToFront(elem)
	return entry.fluff, true
}

// put stores a fetch result unless a newer fetch for the same key has been
// issued since gen was taken. Returns whether the result was stored.
func (c *resourceCache) put(key string, entities []rules.RawEntity, fluff map[string]rules.RawEntity, now time.Time, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generations[key] {
		return false
	}

	c.storeLocked(key, &cacheEntry{key: key, entities: entities, fluff: fluff, fetchedAt: now})
	return true
}

func (c *resourceCache) storeLocked(key string, entry *cacheEntry) {
	if elem, ok := c.entries[key]; ok {
		elem.Value = entry
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(entry)
	for len(c.entries) > c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		evicted := oldest.Value.(*cacheEntry)
		c.order.Remove(oldest)
		delete(c.entries, evicted.key)
	}
}

// remove drops a key from the cache
func (c *resourceCache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
}

// len reports the number of cached keys
func (c *resourceCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
