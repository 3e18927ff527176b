package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/api/repository"

	"github.com/redis/go-redis/v9"
)

// StatsCache is a cache-aside layer for the per-user item statistics
// aggregate. A nil *StatsCache (or nil client) is a valid no-op cache, so
// the service works unchanged when Redis is not configured.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache connects to Redis and verifies the connection.
func NewStatsCache(addr, password string, ttl time.Duration) (*StatsCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &StatsCache{client: rdb, ttl: ttl}, nil
}

func statsKey(userID int64) string {
	return fmt.Sprintf("stats:user:%d", userID)
}

// Get returns the cached stats for a user, or (nil, nil) on a miss.
func (c *StatsCache) Get(ctx context.Context, userID int64) (*repository.UserStats, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats repository.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		// stale or corrupt entry, treat as a miss
		return nil, nil
	}
	return &stats, nil
}

// Set stores the stats for a user with the configured TTL.
func (c *StatsCache) Set(ctx context.Context, userID int64, stats *repository.UserStats) error {
	if c == nil || c.client == nil || stats == nil {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(userID), raw, c.ttl).Err()
}

// Invalidate drops the cached stats for a user after an item write.
func (c *StatsCache) Invalidate(ctx context.Context, userID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, statsKey(userID)).Err()
}

// Close releases the underlying client.
func (c *StatsCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
