package app

import (
	"context"
	"fmt"

	"github.com/ev-station-service/internal/config"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/repository/memory"
	"github.com/ev-station-service/internal/repository/mongo"
	"github.com/ev-station-service/internal/repository/postgres"
	"go.uber.org/zap"
)

// MigrationsPath - каталог SQL миграций относительно рабочей директории
const MigrationsPath = "migrations"

// Stores - репозитории выбранного STORE_DRIVER
type Stores struct {
	Stations repository.StationRepository
	Users    repository.UserRepository
	Stats    repository.StatsRepository

	// Health is nil for the in-memory store.
	Health func(ctx context.Context) error

	close func() error
}

// Close освобождает соединения хранилища
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores подключается к хранилищу и готовит схему: миграции для postgres,
// индексы для mongo.
func OpenStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := db.ApplyMigrations(ctx, MigrationsPath); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		return &Stores{
			Stations: postgres.NewStationRepository(db),
			Users:    postgres.NewUserRepository(db),
			Stats:    postgres.NewStatsRepository(db, log),
			Health:   db.Health,
			close:    db.Close,
		}, nil

	case config.StoreDriverMongo:
		db, err := mongo.New(&cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Stores{
			Stations: mongo.NewStationRepository(db),
			Users:    mongo.NewUserRepository(db),
			Stats:    mongo.NewStatsRepository(db),
			Health:   db.Health,
			close:    db.Close,
		}, nil

	case config.StoreDriverMemory:
		log.Warn("Using in-memory store, data is lost on restart")
		stations := memory.NewStationStore()
		return &Stores{
			Stations: stations,
			Users:    memory.NewUserStore(),
			Stats:    memory.NewStatsRepository(stations),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
