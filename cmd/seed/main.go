package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/ev-station-service/internal/app"
	"github.com/ev-station-service/internal/config"
	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/pkg/auth"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/pkg/logger"
	"github.com/ev-station-service/internal/usecase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	adminEmail := flag.String("admin-email", "admin@test.com", "email of the seeded admin")
	adminPassword := flag.String("admin-password", "password123", "password of the seeded admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level, "ev-station-seed")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer stores.Close()

	messaging, err := app.OpenMessaging(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer messaging.Close()

	admin, err := ensureAdmin(ctx, stores, auth.NewBcryptHasher(cfg.Auth.BcryptCost), *adminEmail, *adminPassword)
	if err != nil {
		log.Fatal("Failed to seed admin", zap.Error(err))
	}
	log.Info("Admin ready", zap.String("user_id", admin.ID), zap.String("email", admin.Email))

	existing, err := stores.Stations.Find(ctx, domain.StationFilter{}, domain.FindOptions{SortBy: domain.SortByCreatedAt})
	if err != nil {
		log.Fatal("Failed to list stations", zap.Error(err))
	}
	names := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		names[s.Name] = struct{}{}
	}

	stationUC := usecase.NewStationUseCase(stores.Stations, stores.Users, messaging.Cache, messaging.Publisher, log)
	actor := domain.Actor{UserID: admin.ID, Role: admin.Role}

	created := 0
	for _, s := range sampleStations {
		if _, ok := names[s.name]; ok {
			log.Info("Station exists, skipping", zap.String("name", s.name))
			continue
		}
		if _, err := stationUC.CreateStation(ctx, actor, s.request()); err != nil {
			log.Fatal("Failed to create station", zap.String("name", s.name), zap.Error(err))
		}
		created++
	}

	log.Info("Seed complete", zap.Int("created", created), zap.Int("skipped", len(sampleStations)-created))
}

func ensureAdmin(ctx context.Context, stores *app.Stores, hasher auth.Hasher, email, password string) (*domain.User, error) {
	user, err := stores.Users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user = &domain.User{
		ID:           uuid.New().String(),
		Name:         "Test Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := stores.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
