package testhelpers

import (
	"context"

	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// ApplyMigrations applies the repository migrations to the test database
func ApplyMigrations(db *sqlx.DB, logger *zap.Logger, migrationsPath string) error {
	return NewDBForTest(db, logger).ApplyMigrations(context.Background(), migrationsPath)
}

// NewStationRepositoryForTest creates a station repository with test database and logger
func NewStationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.StationRepository {
	return postgres.NewStationRepository(NewDBForTest(db, logger))
}

// NewUserRepositoryForTest creates a user repository with test database and logger
func NewUserRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.UserRepository {
	return postgres.NewUserRepository(NewDBForTest(db, logger))
}

// NewStatsRepositoryForTest creates a stats repository with test database and logger
func NewStatsRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.StatsRepository {
	return postgres.NewStatsRepository(NewDBForTest(db, logger), logger)
}
