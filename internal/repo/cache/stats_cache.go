package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stackvault/internal/entity"

	"github.com/redis/go-redis/v9"
)

var statsRanges = []entity.StatsRange{entity.RangeAll, entity.RangeMonth, entity.RangeWeek}

type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func statsKey(r entity.StatsRange) string {
	return fmt.Sprintf("stats:%s", r)
}

func (c *StatsCache) Get(ctx context.Context, r entity.StatsRange) (*entity.Statistics, bool, error) {
	raw, err := c.client.Get(ctx, statsKey(r)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var stats entity.Statistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		// A corrupt entry is treated as a miss and overwritten by the next Set.
		return nil, false, nil
	}
	return &stats, true, nil
}

func (c *StatsCache) Set(ctx context.Context, r entity.StatsRange, stats *entity.Statistics) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(r), raw, c.ttl).Err()
}

// Invalidate drops every cached range.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	keys := make([]string, len(statsRanges))
	for i, r := range statsRanges {
		keys[i] = statsKey(r)
	}
	return c.client.Del(ctx, keys...).Err()
}
