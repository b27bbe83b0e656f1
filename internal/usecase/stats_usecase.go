package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"go.uber.org/zap"
)

// StatsUseCase обрабатывает бизнес-логику для статистики
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	cacheRepo repository.CacheRepository
	ttl       time.Duration
	logger    *zap.Logger
}

// NewStatsUseCase создает новый экземпляр StatsUseCase
func NewStatsUseCase(
	statsRepo repository.StatsRepository,
	cacheRepo repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *StatsUseCase {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsUseCase{
		statsRepo: statsRepo,
		cacheRepo: cacheRepo,
		ttl:       ttl,
		logger:    logger,
	}
}

// GetStatistics возвращает статистику, используя кеш когда возможно
func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	// 1. Проверяем кеш
	cached, err := uc.cacheRepo.GetStats(ctx)
	if err == nil && cached != nil {
		uc.logger.Debug("Statistics fetched from cache")
		return cached, nil
	}

	if err != nil {
		uc.logger.Warn("Failed to get stats from cache", zap.Error(err))
	}

	// 2. Считаем по хранилищу
	uc.logger.Debug("Computing statistics from store")
	stats, err := uc.statsRepo.GetStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("get statistics from store: %w", err)
	}

	// 3. Кешируем
	if err := uc.cacheRepo.SetStats(ctx, stats, uc.ttl); err != nil {
		uc.logger.Warn("Failed to cache stats", zap.Error(err))
	} else {
		uc.logger.Debug("Statistics cached successfully")
	}

	return stats, nil
}

// RefreshStatistics принудительно обновляет статистику
func (uc *StatsUseCase) RefreshStatistics(ctx context.Context) (*domain.Statistics, error) {
	uc.logger.Info("Refreshing statistics")

	stats, err := uc.statsRepo.GetStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh statistics: %w", err)
	}

	if err := uc.cacheRepo.SetStats(ctx, stats, uc.ttl); err != nil {
		uc.logger.Warn("Failed to cache refreshed stats", zap.Error(err))
	}

	uc.logger.Info("Statistics refreshed successfully",
		zap.Int("total_stations", stats.Overview.TotalStations))
	return stats, nil
}
