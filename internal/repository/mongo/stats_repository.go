package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type statsRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewStatsRepository создает репозиторий статистики на агрегациях MongoDB
func NewStatsRepository(db *DB) repository.StatsRepository {
	return &statsRepository{
		coll:   db.db.Collection(StationsCollection),
		logger: db.logger,
	}
}

func (r *statsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{
		ConnectorTypes: []domain.ConnectorCount{},
		LastUpdated:    time.Now().UTC(),
	}

	countStatus := func(status string) bson.D {
		return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$status", status}}}, 1, 0,
		}}}}}
	}

	overview := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalStations", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "activeStations", Value: countStatus(string(domain.StationStatusActive))},
			{Key: "inactiveStations", Value: countStatus(string(domain.StationStatusInactive))},
			{Key: "maintenanceStations", Value: countStatus(string(domain.StationStatusMaintenance))},
			{Key: "outOfOrderStations", Value: countStatus(string(domain.StationStatusOutOfOrder))},
			{Key: "totalPorts", Value: bson.D{{Key: "$sum", Value: "$totalPorts"}}},
			{Key: "totalAvailablePorts", Value: bson.D{{Key: "$sum", Value: "$availablePorts"}}},
			{Key: "averagePowerOutput", Value: bson.D{{Key: "$avg", Value: "$powerOutput"}}},
		}}},
	}

	var rows []struct {
		TotalStations       int     `bson:"totalStations"`
		ActiveStations      int     `bson:"activeStations"`
		InactiveStations    int     `bson:"inactiveStations"`
		MaintenanceStations int     `bson:"maintenanceStations"`
		OutOfOrderStations  int     `bson:"outOfOrderStations"`
		TotalPorts          int     `bson:"totalPorts"`
		TotalAvailablePorts int     `bson:"totalAvailablePorts"`
		AveragePowerOutput  float64 `bson:"averagePowerOutput"`
	}
	if err := r.aggregate(ctx, overview, &rows); err != nil {
		r.logger.Error("failed to get station overview", zap.Error(err))
		return nil, fmt.Errorf("get station overview: %w", err)
	}
	if len(rows) > 0 {
		stats.Overview = domain.StationOverview(rows[0])
	}

	connectors := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$connectorType"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	var groups []struct {
		ConnectorType string `bson:"_id"`
		Count         int    `bson:"count"`
	}
	if err := r.aggregate(ctx, connectors, &groups); err != nil {
		r.logger.Error("failed to get connector stats", zap.Error(err))
		return nil, fmt.Errorf("get connector stats: %w", err)
	}
	for _, g := range groups {
		stats.ConnectorTypes = append(stats.ConnectorTypes, domain.ConnectorCount{
			ConnectorType: domain.ConnectorType(g.ConnectorType),
			Count:         g.Count,
		})
	}

	return stats, nil
}

func (r *statsRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
