// Package cache provides the read-through TTL cache over a RecordStore.
// Collection snapshots stay valid for one TTL window after fetch; any
// write must invalidate the affected collection so the next read refetches.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// Collections is the per-collection TTL cache. There is no per-key
// locking across a fetch: two near-simultaneous misses may both hit the
// store. A fetch is a pure read, so the double fetch is accepted.
type Collections struct {
	store   types.RecordStore
	entries *expirable.LRU[string, []types.Row]
}

// New creates a cache over the given store. A non-positive ttl falls back
// to types.DefaultCacheTTL.
func New(store types.RecordStore, ttl time.Duration) *Collections {
	if ttl <= 0 {
		ttl = types.DefaultCacheTTL
	}
	return &Collections{
		store: store,
		entries: expirable.NewLRU[string, []types.Row](
			len(types.CollectionNames)+1, nil, ttl),
	}
}

// Get returns the collection's rows, serving the cached snapshot while it
// is fresh and fetching from the store otherwise. On a fetch failure Get
// returns an empty slice together with the classified error: callers can
// always render, and they still learn which error kind occurred.
func (c *Collections) Get(ctx context.Context, collection string) ([]types.Row, error) {
	if rows, ok := c.entries.Get(collection); ok {
		return rows, nil
	}

	rows, err := c.store.Rows(ctx, collection)
	if err != nil {
		return []types.Row{}, err
	}
	c.entries.Add(collection, rows)
	return rows, nil
}

// Invalidate clears the cached snapshot for one collection so the next
// Get fetches fresh data.
func (c *Collections) Invalidate(collection string) {
	c.entries.Remove(collection)
}

// InvalidateAll clears every cached snapshot.
func (c *Collections) InvalidateAll() {
	c.entries.Purge()
}
