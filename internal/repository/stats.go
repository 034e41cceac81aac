package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StatsRepository - integer counters by key. A missing key is reported as absent, not as an error.
type StatsRepository interface {
	Get(ctx context.Context, key string) (int, bool, error)
	Set(ctx context.Context, key string, value int) error
	Remove(ctx context.Context, key string) error
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

func (that *dbStats) Get(ctx context.Context, key string) (int, bool, error) {
	value, err := that.client.Get(ctx, statsKey(key)).Int()

	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("failed to get stat %s: %w", key, err)
	}

	return value, true, nil
}

func (that *dbStats) Set(ctx context.Context, key string, value int) error {
	if err := that.client.Set(ctx, statsKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set stat %s: %w", key, err)
	}

	return nil
}

func (that *dbStats) Remove(ctx context.Context, key string) error {
	if err := that.client.Del(ctx, statsKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete stat %s: %w", key, err)
	}

	return nil
}

func statsKey(key string) string {
	return "stats:" + key
}
