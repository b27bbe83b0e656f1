package repository

import (
	"context"

	"github.com/ev-station-service/internal/domain"
)

// StationRepository определяет методы для работы со станциями
type StationRepository interface {
	// Create сохраняет новую станцию
	Create(ctx context.Context, station *domain.Station) error

	// GetByID возвращает станцию по ID или errors.ErrStationNotFound
	GetByID(ctx context.Context, id string) (*domain.Station, error)

	// Update перезаписывает станцию целиком
	Update(ctx context.Context, station *domain.Station) error

	// Delete удаляет станцию безвозвратно
	Delete(ctx context.Context, id string) error

	// Find возвращает страницу станций по фильтру
	Find(ctx context.Context, filter domain.StationFilter, opts domain.FindOptions) ([]*domain.Station, error)

	// Count возвращает число станций по фильтру
	Count(ctx context.Context, filter domain.StationFilter) (int64, error)

	// FindNear возвращает страницу станций в радиусе с заполненным Distance (метры)
	FindNear(ctx context.Context, filter domain.StationFilter, near domain.GeoFilter, opts domain.FindOptions) ([]*domain.Station, error)

	// CountNear возвращает число станций по фильтру в радиусе
	CountNear(ctx context.Context, filter domain.StationFilter, near domain.GeoFilter) (int64, error)
}
