package store

import (
	"strings"

	"github.com/coocood/freecache"
)

// ComparisonCache holds encoded comparison tables. Entries are keyed by cycle
// id, so a new refresh cycle never serves a previous cycle's table.
type ComparisonCache interface {
	Get(cycleID string, keys []string) ([]byte, bool)
	Set(cycleID string, keys []string, value []byte)
}

type freeCache struct {
	cache *freecache.Cache
	ttl   int
}

// NewComparisonCache returns a freecache backed cache of sizeMB megabytes.
// A non-positive size disables caching.
func NewComparisonCache(sizeMB int, ttlSeconds int) ComparisonCache {
	if sizeMB <= 0 {
		return noopCache{}
	}
	return &freeCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   max(ttlSeconds, 1),
	}
}

func (c *freeCache) Get(cycleID string, keys []string) ([]byte, bool) {
	val, err := c.cache.Get(cacheKey(cycleID, keys))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *freeCache) Set(cycleID string, keys []string, value []byte) {
	_ = c.cache.Set(cacheKey(cycleID, keys), value, c.ttl)
}

func cacheKey(cycleID string, keys []string) []byte {
	return []byte(cycleID + "|" + strings.Join(keys, ","))
}

type noopCache struct{}

func (noopCache) Get(_ string, _ []string) ([]byte, bool) { return nil, false }
func (noopCache) Set(_ string, _ []string, _ []byte)      {}
