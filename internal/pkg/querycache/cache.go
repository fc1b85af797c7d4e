// internal/pkg/querycache/cache.go
package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskdesk/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Key names a cached query.
type Key string

const (
	KeyTasks      Key = "tasks"
	KeyCategories Key = "categories"
)

type entry struct {
	value     interface{}
	stale     bool
	fetchedAt time.Time
}

// stamp identifies the state a flight started from. A flight may only
// store its result while the stamp is unchanged.
type stamp struct {
	generation uint64
	version    uint64
}

// Cache holds query results until a mutation invalidates them. An
// invalidated key costs exactly one fetch on its next read, however many
// readers arrive at once.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	// bumped by Invalidate, including for keys that have no entry yet
	versions map[Key]uint64
	// bumped by Clear so a flight that started before it cannot repopulate
	generation uint64

	group   singleflight.Group
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(logger *zap.Logger, m *metrics.Metrics) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries:  make(map[Key]*entry),
		versions: make(map[Key]uint64),
		logger:   logger,
		metrics:  m,
	}
}

// Fetch returns the cached value for key, calling fetch when the key is
// missing or stale. Errors are not cached.
//
// The fetch runs detached from the caller's cancellation, since other
// readers may be waiting on the same flight.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.stale {
		c.mu.Unlock()
		v, ok := e.value.(T)
		if !ok {
			return zero, fmt.Errorf("query cache: key %q holds %T", key, e.value)
		}
		return v, nil
	}
	st := c.stampLocked(key)
	c.mu.Unlock()

	// readers arriving after an invalidation never join a flight started before it
	flight := fmt.Sprintf("%s#%d.%d", key, st.generation, st.version)

	res, err, _ := c.group.Do(flight, func() (interface{}, error) {
		// a flight that finished between our miss and this call already refreshed it
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && !e.stale && c.stampLocked(key) == st {
			c.mu.Unlock()
			return e.value, nil
		}
		c.mu.Unlock()

		c.metrics.Fetch(string(key))
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.stampLocked(key) == st {
			c.entries[key] = &entry{value: v, fetchedAt: time.Now()}
		} else {
			c.logger.Debug("query invalidated during fetch, result not cached", zap.String("key", string(key)))
		}
		c.mu.Unlock()

		c.logger.Debug("query fetched", zap.String("key", string(key)))
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("query cache: key %q holds %T", key, res)
	}
	return v, nil
}

func (c *Cache) stampLocked(key Key) stamp {
	return stamp{generation: c.generation, version: c.versions[key]}
}

// Invalidate marks keys stale. A fetch already in flight for one of them
// still answers its callers but is not cached.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		c.versions[k]++
		if e, ok := c.entries[k]; ok {
			e.stale = true
		}
	}
}

// Clear drops every entry. Used on logout so the next user never sees the
// previous user's data.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*entry)
	c.generation++
}

// FetchedAt reports when key was last fetched, if cached.
func (c *Cache) FetchedAt(key Key) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return time.Time{}, false
	}
	return e.fetchedAt, true
}
