package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

type StatsService interface {
	Record(ctx context.Context, result entity.StatResult) error
	Load(ctx context.Context) (entity.Stats, error)
	Clear(ctx context.Context) error
}

type statsStore interface {
	Get(ctx context.Context, key string) (int, bool, error)
	Set(ctx context.Context, key string, value int) error
	Remove(ctx context.Context, key string) error
}

type statsService struct {
	store statsStore
}

func NewStatsService(store statsStore) StatsService {
	return &statsService{
		store: store,
	}
}

// Record - increments the counter for result by exactly one. Missing counters start at zero.
func (that *statsService) Record(ctx context.Context, result entity.StatResult) error {
	key := result.Key()
	if key == "" {
		return fmt.Errorf("unknown stat result %d", result)
	}

	value, _, err := that.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err = that.store.Set(ctx, key, value+1); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

func (that *statsService) Load(ctx context.Context) (entity.Stats, error) {
	var stats entity.Stats

	counters := map[string]*int{
		entity.StatsWinsKey:   &stats.Wins,
		entity.StatsLossesKey: &stats.Losses,
		entity.StatsDrawsKey:  &stats.Draws,
	}

	for key, counter := range counters {
		value, _, err := that.store.Get(ctx, key)
		if err != nil {
			return entity.Stats{}, fmt.Errorf("failed to get %s: %w", key, err)
		}

		*counter = value
	}

	return stats, nil
}

func (that *statsService) Clear(ctx context.Context) error {
	for _, key := range entity.StatsKeys() {
		if err := that.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}

	return nil
}
