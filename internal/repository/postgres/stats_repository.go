package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"go.uber.org/zap"
)

type statsRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewStatsRepository создает новый экземпляр stats repository
func NewStatsRepository(db *DB, logger *zap.Logger) repository.StatsRepository {
	return &statsRepository{
		db:     db,
		logger: logger,
	}
}

// GetStatistics возвращает агрегированную статистику по станциям
func (r *statsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{
		LastUpdated: time.Now().UTC(),
	}

	overview, err := r.getOverview(ctx)
	if err != nil {
		r.logger.Error("failed to get station overview", zap.Error(err))
		return nil, fmt.Errorf("get station overview: %w", err)
	}
	stats.Overview = *overview

	connectors, err := r.getConnectorStats(ctx)
	if err != nil {
		r.logger.Error("failed to get connector stats", zap.Error(err))
		return nil, fmt.Errorf("get connector stats: %w", err)
	}
	stats.ConnectorTypes = connectors

	return stats, nil
}

// getOverview считает сводные счётчики одним запросом
func (r *statsRepository) getOverview(ctx context.Context) (*domain.StationOverview, error) {
	o := &domain.StationOverview{}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Active'),
			COUNT(*) FILTER (WHERE status = 'Inactive'),
			COUNT(*) FILTER (WHERE status = 'Maintenance'),
			COUNT(*) FILTER (WHERE status = 'Out of Order'),
			COALESCE(SUM(total_ports), 0),
			COALESCE(SUM(available_ports), 0),
			COALESCE(AVG(power_output), 0)
		FROM stations
	`

	err := r.db.DB.QueryRowContext(ctx, query).Scan(
		&o.TotalStations,
		&o.ActiveStations,
		&o.InactiveStations,
		&o.MaintenanceStations,
		&o.OutOfOrderStations,
		&o.TotalPorts,
		&o.TotalAvailablePorts,
		&o.AveragePowerOutput,
	)
	if err != nil {
		return nil, fmt.Errorf("query overview: %w", err)
	}

	return o, nil
}

// getConnectorStats группирует станции по типу разъёма
func (r *statsRepository) getConnectorStats(ctx context.Context) ([]domain.ConnectorCount, error) {
	query := `
		SELECT
			connector_type,
			COUNT(*) as count
		FROM stations
		GROUP BY connector_type
		ORDER BY count DESC, connector_type
	`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query connector stats: %w", err)
	}
	defer rows.Close()

	result := []domain.ConnectorCount{}
	for rows.Next() {
		var c domain.ConnectorCount
		if err := rows.Scan(&c.ConnectorType, &c.Count); err != nil {
			return nil, fmt.Errorf("scan connector stats: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("connector stats rows error: %w", err)
	}

	return result, nil
}
