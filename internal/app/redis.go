package app

import (
	"github.com/ev-station-service/internal/config"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/repository/cache"
	redisrepo "github.com/ev-station-service/internal/repository/redis"
	"go.uber.org/zap"
)

// Messaging - кеш статистики и публикация событий поверх Redis
type Messaging struct {
	Redis     *cache.Redis // nil when REDIS_ENABLED=false
	Cache     repository.CacheRepository
	Streams   repository.StreamRepository // nil when REDIS_ENABLED=false
	Publisher repository.EventPublisher
}

// OpenMessaging подключает Redis или возвращает no-op реализации
func OpenMessaging(cfg *config.Config, log *zap.Logger) (*Messaging, error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, stats cache and station events are off")
		return &Messaging{
			Cache:     cache.NewNopCacheRepository(),
			Publisher: redisrepo.NewNopEventPublisher(),
		}, nil
	}

	client, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		return nil, err
	}

	streams := redisrepo.NewStreamRepository(client.Client(), cfg.Worker.StreamReadTimeout, log)
	return &Messaging{
		Redis:     client,
		Cache:     cache.NewCacheRepository(client),
		Streams:   streams,
		Publisher: redisrepo.NewEventPublisher(streams),
	}, nil
}

// Close закрывает соединение с Redis, если оно открыто
func (m *Messaging) Close() error {
	if m.Redis == nil {
		return nil
	}
	return m.Redis.Close()
}
