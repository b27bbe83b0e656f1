package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ev-station-service/internal/app"
	"github.com/ev-station-service/internal/config"
	"github.com/ev-station-service/internal/pkg/logger"
	"github.com/ev-station-service/internal/usecase"
	"github.com/ev-station-service/internal/worker"
	"github.com/ev-station-service/internal/worker/stations"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}
	if !cfg.Redis.Enabled {
		fmt.Println("Worker needs Redis Streams. Set REDIS_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "ev-station-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Station Stats Worker")
	log.Info("Configuration loaded",
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize))

	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn("In-memory store is per process, the worker sees no API data")
	}

	// 3. Connect to the store
	openCtx, openCancel := context.WithTimeout(context.Background(), 30*time.Second)
	stores, err := app.OpenStores(openCtx, cfg, log)
	openCancel()
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Failed to close store", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	messaging, err := app.OpenMessaging(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := messaging.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize use cases and workers
	statsUC := usecase.NewStatsUseCase(stores.Stats, messaging.Cache, cfg.Cache.StatsCacheTTL, log)

	statsWorker := stations.NewStatsRefreshWorker(
		messaging.Streams,
		statsUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		log,
	)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(statsWorker)

	// 6. Start workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
