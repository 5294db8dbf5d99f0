// Package cache keeps rendered month grids in Redis so calendar navigation
// does not rebuild the view on every request. Misses and marshal failures
// degrade to a rebuild; the cache is never authoritative.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"labreserve/internal/schedule"
)

// MonthCache caches MonthGrid views keyed by year and month.
type MonthCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// New creates a month cache. A nil client or non-positive TTL disables
// caching: Get always misses and Put is a no-op.
func New(rdb *redis.Client, ttl time.Duration, logger *zerolog.Logger) *MonthCache {
	return &MonthCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *MonthCache) enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

// Get returns the cached grid for year/month, if present.
func (c *MonthCache) Get(ctx context.Context, year, month int) (*schedule.MonthGrid, bool) {
	if !c.enabled() {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, monthKey(year, month)).Result()
	if err != nil {
		return nil, false
	}
	var grid schedule.MonthGrid
	if err := json.Unmarshal([]byte(val), &grid); err != nil {
		return nil, false
	}
	return &grid, true
}

// Put stores a grid under its own year/month key.
func (c *MonthCache) Put(ctx context.Context, grid *schedule.MonthGrid) {
	if !c.enabled() || grid == nil {
		return
	}
	data, err := json.Marshal(grid)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, monthKey(grid.Year, grid.Month), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("month cache write failed")
	}
}

// Invalidate drops the cached month containing date (YYYY-MM-DD).
// Implements schedule.Invalidator.
func (c *MonthCache) Invalidate(ctx context.Context, date string) {
	if !c.enabled() || len(date) < 7 {
		return
	}
	if err := c.rdb.Del(ctx, "calendar:"+date[:7]).Err(); err != nil {
		c.logger.Warn().Err(err).Str("date", date).Msg("month cache invalidation failed")
	}
}

func monthKey(year, month int) string {
	return fmt.Sprintf("calendar:%04d-%02d", year, month)
}
