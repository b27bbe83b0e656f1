package cache

import (
	"context"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
)

// nopCacheRepository используется, когда Redis отключен: всегда промах
type nopCacheRepository struct{}

// NewNopCacheRepository возвращает кеш, который ничего не хранит
func NewNopCacheRepository() repository.CacheRepository {
	return nopCacheRepository{}
}

func (nopCacheRepository) Get(context.Context, string) ([]byte, error) { return nil, nil }

func (nopCacheRepository) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (nopCacheRepository) Delete(context.Context, string) error { return nil }

func (nopCacheRepository) GetStats(context.Context) (*domain.Statistics, error) { return nil, nil }

func (nopCacheRepository) SetStats(context.Context, *domain.Statistics, time.Duration) error {
	return nil
}

func (nopCacheRepository) InvalidateStats(context.Context) error { return nil }
