package partyhub

import (
	"sync"
	"time"
)

// GalleryCache is an in-memory cache of the creations list with TTL.
// The gallery is read on every marquee render, so it should not hit
// SQLite each time.
type GalleryCache struct {
	mu        sync.RWMutex
	creations []Creation
	fetched   time.Time
	ttl       time.Duration
	store     *Store
}

// NewGalleryCache creates a GalleryCache backed by the given Store.
func NewGalleryCache(s *Store, ttl time.Duration) *GalleryCache {
	return &GalleryCache{store: s, ttl: ttl}
}

func (c *GalleryCache) valid() bool {
	return c.creations != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *GalleryCache) Invalidate() {
	c.mu.Lock()
	c.creations = nil
	c.mu.Unlock()
}

// List returns the cached creations, reloading from the store when the
// TTL has lapsed. It tries a read lock first; only takes a write lock
// if a reload is needed.
func (c *GalleryCache) List() ([]Creation, error) {
	c.mu.RLock()
	if c.valid() {
		out := c.creations
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.creations, nil
	}
	creations, err := c.store.ListCreations()
	if err != nil {
		return nil, err
	}
	if creations == nil {
		creations = []Creation{}
	}
	c.creations = creations
	c.fetched = time.Now()
	return creations, nil
}
