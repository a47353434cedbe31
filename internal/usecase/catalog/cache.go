package catalog

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is the lifetime of a cached query result when none is given.
const DefaultCacheTTL = 30 * time.Second

// QueryCache memoises derived query results.
//
// Keys embed the registry generation, so any successful write makes every
// earlier entry unreachable; the TTL only bounds how long unreachable entries
// occupy memory. Stored slices are private copies and callers always receive
// a fresh copy.
type QueryCache struct {
	cache *gocache.Cache
}

// NewQueryCache creates a cache whose entries expire after ttl.
// A non-positive ttl selects DefaultCacheTTL.
func NewQueryCache(ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &QueryCache{cache: gocache.New(ttl, 2*ttl)}
}

// Len returns the number of entries, including expired ones not yet evicted.
func (c *QueryCache) Len() int {
	return c.cache.ItemCount()
}

// Flush removes every entry.
func (c *QueryCache) Flush() {
	c.cache.Flush()
}

// queryResult is the cached form of a derived query. ok is false for the
// "no data" outcome of the optional queries.
type queryResult[T any] struct {
	items []T
	ok    bool
}

func (r queryResult[T]) clone() queryResult[T] {
	if r.items == nil {
		return r
	}
	return queryResult[T]{items: slices.Clone(r.items), ok: r.ok}
}

func cacheKey(query string, id uuid.UUID, generation uint64) string {
	return fmt.Sprintf("%s:%s:%d", query, id, generation)
}

func cacheGet[T any](c *QueryCache, key string) (queryResult[T], bool) {
	v, found := c.cache.Get(key)
	if !found {
		return queryResult[T]{}, false
	}
	r, ok := v.(queryResult[T])
	if !ok {
		return queryResult[T]{}, false
	}
	return r.clone(), true
}

func cacheSet[T any](c *QueryCache, key string, r queryResult[T]) {
	c.cache.SetDefault(key, r.clone())
}
