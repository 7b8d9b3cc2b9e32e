package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/chargehub/backend-go/internal/models"
)

// proximityEntry wraps a cached match with its expiry.
type proximityEntry struct {
	result    models.ProximityResult
	expiresAt time.Time
}

// ProximityCache memoizes nearest-station results. The key carries the
// directory snapshot version and the position rounded to four decimal
// places (~11m), so a result computed from a superseded snapshot or a
// meaningfully different fix can never be served.
type ProximityCache struct {
	lru    *lru.Cache[string, proximityEntry]
	ttl    time.Duration
	now    func() time.Time
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewProximityCache(size int, ttl time.Duration) (*ProximityCache, error) {
	lruCache, err := lru.New[string, proximityEntry](size)
	if err != nil {
		return nil, fmt.Errorf("creating proximity LRU: %w", err)
	}
	return &ProximityCache{
		lru: lruCache,
		ttl: ttl,
		now: time.Now,
	}, nil
}

func proximityKey(snapshotVersion uint64, pos models.UserPosition) string {
	return fmt.Sprintf("%d:%.4f:%.4f", snapshotVersion, pos.Location.Latitude, pos.Location.Longitude)
}

// Get returns a cached result for the snapshot version and position.
func (c *ProximityCache) Get(snapshotVersion uint64, pos models.UserPosition) (models.ProximityResult, bool) {
	key := proximityKey(snapshotVersion, pos)
	entry, ok := c.lru.Get(key)
	if !ok {
		c.misses.Add(1)
		return models.ProximityResult{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.lru.Remove(key)
		c.misses.Add(1)
		return models.ProximityResult{}, false
	}
	c.hits.Add(1)
	return entry.result, true
}

// Set stores a result under the snapshot version and position.
func (c *ProximityCache) Set(snapshotVersion uint64, pos models.UserPosition, result models.ProximityResult) {
	c.lru.Add(proximityKey(snapshotVersion, pos), proximityEntry{
		result:    result,
		expiresAt: c.now().Add(c.ttl),
	})
}

// Stats reports hit/miss counters for logging.
func (c *ProximityCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
