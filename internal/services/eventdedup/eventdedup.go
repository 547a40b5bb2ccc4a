package eventdedup

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache remembers webhook event ids that were already relayed.
type Cache struct {
	cache *cache.Cache
}

// New creates a new Cache that forgets ids after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		cache: cache.New(ttl, 2*ttl),
	}
}

// MarkSeen records eventID and reports whether this is the first time it was seen.
// Empty ids are never recorded and always count as first seen.
func (c *Cache) MarkSeen(eventID string) bool {
	if eventID == "" {
		return true
	}
	// Add fails when the key already exists and has not expired.
	return c.cache.Add(eventID, struct{}{}, cache.DefaultExpiration) == nil
}
