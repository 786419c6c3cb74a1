// pkg/store/cache.go
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CSimonini/Data-Quality-Review-Hub/pkg/model"
)

// CachedLoader memoizes LoadTable results for a bounded time so repeated
// views of the same table do not hammer the warehouse. Entries expire after
// the TTL and can be dropped explicitly after a write-back.
type CachedLoader struct {
	store  Datastore
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
}

type cacheKey struct {
	ref     TableRef
	orderBy string
}

type cacheEntry struct {
	dataset  *model.Dataset
	loadedAt time.Time
}

// NewCachedLoader wraps a datastore with TTL memoization. A TTL of zero
// disables caching entirely.
func NewCachedLoader(store Datastore, ttl time.Duration, logger *zap.Logger) *CachedLoader {
	return &CachedLoader{
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.Named("cache"),
		entries: make(map[cacheKey]cacheEntry),
	}
}

// WithClock overrides the time source, for tests
func (c *CachedLoader) WithClock(now func() time.Time) *CachedLoader {
	c.now = now
	return c
}

// Load returns a deep copy of the table, from cache when fresh. Callers own
// the returned dataset and may mutate it freely.
func (c *CachedLoader) Load(ctx context.Context, ref TableRef, orderBy string) (*model.Dataset, error) {
	key := cacheKey{ref: ref, orderBy: orderBy}

	if c.ttl > 0 {
		c.mu.Lock()
		entry, ok := c.entries[key]
		c.mu.Unlock()
		if ok && c.now().Sub(entry.loadedAt) < c.ttl {
			c.logger.Debug("Cache hit", zap.String("table", ref.String()))
			return entry.dataset.Clone(), nil
		}
	}

	ds, err := c.store.LoadTable(ctx, ref, orderBy)
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.entries[key] = cacheEntry{dataset: ds.Clone(), loadedAt: c.now()}
		c.mu.Unlock()
	}
	return ds, nil
}

// Invalidate drops all cached copies of one table regardless of ordering
func (c *CachedLoader) Invalidate(ref TableRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.ref == ref {
			delete(c.entries, key)
		}
	}
	c.logger.Debug("Cache invalidated", zap.String("table", ref.String()))
}

// InvalidateAll empties the cache
func (c *CachedLoader) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}
