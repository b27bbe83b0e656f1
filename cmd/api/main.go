package main

// @title EV Charging Station API
// @version 1.0.0
// @description REST API для управления зарядными станциями электромобилей.
// @description
// @description Основные возможности:
// @description - CRUD станций с проверкой владельца
// @description - Фильтрация, геопоиск в радиусе, сортировка и пагинация
// @description - Статистика по статусам, портам и типам разъёмов
// @description - Регистрация и JWT аутентификация

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ev-station-service/docs"
	"github.com/ev-station-service/internal/app"
	"github.com/ev-station-service/internal/config"
	httpDelivery "github.com/ev-station-service/internal/delivery/http"
	"github.com/ev-station-service/internal/delivery/http/handler"
	"github.com/ev-station-service/internal/pkg/auth"
	"github.com/ev-station-service/internal/pkg/logger"
	"github.com/ev-station-service/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "ev-station-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting EV Charging Station API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Bool("public_reads", cfg.Auth.PublicReads),
	)

	// 3. Connect to the store
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	stores, err := app.OpenStores(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Failed to close store", zap.Error(err))
		}
	}()

	// 4. Connect to Redis (optional)
	messaging, err := app.OpenMessaging(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := messaging.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}()

	checks := map[string]httpDelivery.HealthCheck{}
	if stores.Health != nil {
		checks[cfg.Store.Driver] = stores.Health
	}
	if messaging.Redis != nil {
		checks["redis"] = messaging.Redis.Health
	}

	// 5. Initialize Use Cases
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	stationUC := usecase.NewStationUseCase(stores.Stations, stores.Users, messaging.Cache, messaging.Publisher, log)
	queryUC := usecase.NewStationQueryUseCase(stores.Stations, stores.Users, log)
	statsUC := usecase.NewStatsUseCase(stores.Stats, messaging.Cache, cfg.Cache.StatsCacheTTL, log)
	authUC := usecase.NewAuthUseCase(stores.Users, tokens, hasher, log)

	log.Info("Use cases initialized")

	// 6. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		tokens,
		checks,
		handler.NewStationHandler(stationUC, queryUC, log),
		handler.NewStatsHandler(statsUC, log),
		handler.NewAuthHandler(authUC, log),
	)

	// 7. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
