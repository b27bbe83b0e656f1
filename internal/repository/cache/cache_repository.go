package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StatsKey - ключ закешированной статистики станций
const StatsKey = "stats:stations"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetStats получает статистику из кеша, nil при промахе
func (r *cacheRepository) GetStats(ctx context.Context) (*domain.Statistics, error) {
	data, err := r.Get(ctx, StatsKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var stats domain.Statistics
	if err := json.Unmarshal(data, &stats); err != nil {
		r.logger.Error("Failed to unmarshal stats from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}

	return &stats, nil
}

// SetStats сохраняет статистику в кеше
func (r *cacheRepository) SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		r.logger.Error("Failed to marshal stats", zap.Error(err))
		return fmt.Errorf("marshal stats: %w", err)
	}

	return r.Set(ctx, StatsKey, data, ttl)
}

// InvalidateStats сбрасывает статистику после изменения станций
func (r *cacheRepository) InvalidateStats(ctx context.Context) error {
	return r.Delete(ctx, StatsKey)
}
