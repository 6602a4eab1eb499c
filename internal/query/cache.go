package query

import "sync"

// Tag labels a class of cached reads. Writes that change an entity
// class invalidate its tag, forcing dependent reads to refetch.
type Tag string

const (
	TagUser          Tag = "user"
	TagSite          Tag = "site"
	TagGeneration    Tag = "generation"
	TagFIT           Tag = "fit"
	TagMaintenance   Tag = "maintenance"
	TagNotifications Tag = "notifications"
)

// Cache is an in-process, tag-invalidated response cache keyed by the
// query's input key.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
	tags    map[Tag]map[string]struct{}
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string][]byte),
		tags:    make(map[Tag]map[string]struct{}),
	}
}

// Get returns the cached payload for key, if present.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok
}

// Set stores a payload under key and registers it with the given tags.
func (c *Cache) Set(key string, data []byte, tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	for _, tag := range tags {
		if c.tags[tag] == nil {
			c.tags[tag] = make(map[string]struct{})
		}
		c.tags[tag][key] = struct{}{}
	}
}

// Invalidate drops every entry registered under any of the tags.
func (c *Cache) Invalidate(tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tag := range tags {
		for key := range c.tags[tag] {
			delete(c.entries, key)
		}
		delete(c.tags, tag)
	}
}

// Flush drops everything, e.g. on logout.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.tags = make(map[Tag]map[string]struct{})
}
