package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
)

// StatsRepository считает статистику по StationStore
type StatsRepository struct {
	stations *StationStore
}

func NewStatsRepository(stations *StationStore) *StatsRepository {
	return &StatsRepository{stations: stations}
}

var _ repository.StatsRepository = (*StatsRepository)(nil)

func (r *StatsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &domain.Statistics{
		ConnectorTypes: []domain.ConnectorCount{},
		LastUpdated:    time.Now().UTC(),
	}

	var powerSum float64
	byConnector := make(map[domain.ConnectorType]int)
	for _, st := range r.stations.snapshot() {
		o := &stats.Overview
		o.TotalStations++
		o.CountStatus(st.Status)
		o.TotalPorts += st.TotalPorts
		o.TotalAvailablePorts += st.AvailablePorts
		powerSum += st.PowerOutput
		byConnector[st.ConnectorType]++
	}

	if stats.Overview.TotalStations > 0 {
		stats.Overview.AveragePowerOutput = powerSum / float64(stats.Overview.TotalStations)
	}

	for ct, n := range byConnector {
		stats.ConnectorTypes = append(stats.ConnectorTypes, domain.ConnectorCount{ConnectorType: ct, Count: n})
	}
	sortConnectorCounts(stats.ConnectorTypes)

	return stats, nil
}

// sortConnectorCounts orders by count desc, then name.
func sortConnectorCounts(items []domain.ConnectorCount) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].ConnectorType < items[j].ConnectorType
	})
}
