package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/ev-station-service/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// Redis - общее подключение для кеша статистики и стрима событий
type Redis struct {
	client *redis.Client
	addr   string
	logger *zap.Logger
}

// NewRedis подключается и проверяет соединение PING'ом.
// Blocking stream reads extend the read timeout per command, so Timeout only bounds regular calls.
func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	opts := &redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	if cfg.Timeout > 0 {
		opts.DialTimeout = cfg.Timeout
		opts.ReadTimeout = cfg.Timeout
		opts.WriteTimeout = cfg.Timeout
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Info("Redis connected",
		zap.String("addr", addr),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", client.Options().PoolSize),
	)

	return &Redis{
		client: client,
		addr:   addr,
		logger: logger,
	}, nil
}

func (r *Redis) Close() error {
	r.logger.Info("Closing Redis connection", zap.String("addr", r.addr))
	return r.client.Close()
}

// Health используется в /health
func (r *Redis) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *Redis) Client() *redis.Client {
	return r.client
}
