package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Issaqsk/farm2market/internal/repository"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// advisoryCache is the default AdvisoryCache backend when Redis is not
// configured. Expired entries are dropped lazily on Get.
type advisoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewAdvisoryCache() repository.AdvisoryCache {
	return &advisoryCache{entries: make(map[string]cacheEntry)}
}

func (c *advisoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, repository.ErrNotFound
	}
	return entry.value, nil
}

func (c *advisoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}
