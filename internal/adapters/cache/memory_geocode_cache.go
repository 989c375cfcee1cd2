package cache

import (
	"context"
	"crew-route-service/internal/domain"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryGeocodeCache is a bounded in-process LRU cache with a per-entry TTL.
// It is safe for concurrent use by parallel optimization runs.
type MemoryGeocodeCache struct {
	lru *expirable.LRU[string, domain.GeocodeResult]
}

// NewMemoryGeocodeCache creates a cache holding at most capacity entries.
// A ttl of zero keeps entries until they are evicted by size.
func NewMemoryGeocodeCache(capacity int, ttl time.Duration) *MemoryGeocodeCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryGeocodeCache{
		lru: expirable.NewLRU[string, domain.GeocodeResult](capacity, nil, ttl),
	}
}

func (c *MemoryGeocodeCache) Get(_ context.Context, key string) (domain.GeocodeResult, bool, error) {
	result, ok := c.lru.Get(key)
	return result, ok, nil
}

func (c *MemoryGeocodeCache) Put(_ context.Context, key string, result domain.GeocodeResult) error {
	c.lru.Add(key, result)
	return nil
}

// Len reports the number of live entries.
func (c *MemoryGeocodeCache) Len() int {
	return c.lru.Len()
}
