package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/logging"
)

// Compile-time check to ensure SnapshotCache implements the interface
var _ interfaces.SnapshotCache = (*SnapshotCache)(nil)

// record is the stored form of a snapshot
type record struct {
	Timestamp int64             `json:"timestamp"`
	Data      *[]entities.Entry `json:"data"`
}

// SnapshotCache stores one entry set under a fixed key and serves it while
// it is younger than the TTL.
type SnapshotCache struct {
	store Store
	key   string
	ttl   time.Duration
	now   func() time.Time
}

// SnapshotOption customizes a SnapshotCache.
type SnapshotOption func(*SnapshotCache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SnapshotOption {
	return func(c *SnapshotCache) { c.now = now }
}

// NewSnapshotCache creates a cache slot named key in store.
func NewSnapshotCache(store Store, key string, ttl time.Duration, opts ...SnapshotOption) *SnapshotCache {
	c := &SnapshotCache{
		store: store,
		key:   key,
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the slot name.
func (c *SnapshotCache) Key() string {
	return c.key
}

// Read returns the cached entries when a fresh record exists. Expired or
// unreadable records are removed and reported as a miss.
func (c *SnapshotCache) Read(ctx context.Context) ([]entities.Entry, bool) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.Warn("Snapshot cache read failed", "key", c.key, "error", err)
		}
		return nil, false
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil || rec.Timestamp <= 0 || rec.Data == nil {
		logging.Warn("Discarding corrupt snapshot", "key", c.key)
		c.discard(ctx)
		return nil, false
	}

	age := c.now().Sub(time.UnixMilli(rec.Timestamp))
	if age >= c.ttl {
		logging.Debug("Snapshot expired", "key", c.key, "age", age.String())
		c.discard(ctx)
		return nil, false
	}

	return *rec.Data, true
}

// Write stores entries stamped with the current time.
func (c *SnapshotCache) Write(ctx context.Context, entries []entities.Entry) error {
	if entries == nil {
		entries = []entities.Entry{}
	}
	raw, err := json.Marshal(record{Timestamp: c.now().UnixMilli(), Data: &entries})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the record so the next Read misses.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}
	return nil
}

func (c *SnapshotCache) discard(ctx context.Context) {
	if err := c.store.Delete(ctx, c.key); err != nil {
		logging.Warn("Failed to remove snapshot", "key", c.key, "error", err)
	}
}
