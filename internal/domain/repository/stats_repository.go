package repository

import (
	"context"

	"github.com/ev-station-service/internal/domain"
)

// StatsRepository интерфейс для работы со статистикой
type StatsRepository interface {
	// GetStatistics возвращает агрегированную статистику по станциям
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}
