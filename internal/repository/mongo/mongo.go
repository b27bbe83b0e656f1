package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/ev-station-service/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Имена коллекций
const (
	StationsCollection = "stations"
	UsersCollection    = "users"
)

type DB struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

func New(cfg *config.MongoConfig, logger *zap.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("MongoDB connected", zap.String("database", cfg.DBName))

	return &DB{
		client: client,
		db:     client.Database(cfg.DBName),
		logger: logger,
	}, nil
}

// EnsureIndexes создаёт 2dsphere и вспомогательные индексы
func (d *DB) EnsureIndexes(ctx context.Context) error {
	stationIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "geo", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "connectorType", Value: 1}}},
		{Keys: bson.D{{Key: "powerOutput", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
	}
	if _, err := d.db.Collection(StationsCollection).Indexes().CreateMany(ctx, stationIndexes); err != nil {
		return fmt.Errorf("create station indexes: %w", err)
	}

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := d.db.Collection(UsersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	d.logger.Info("MongoDB indexes ensured")
	return nil
}

func (d *DB) Database() *mongo.Database {
	return d.db
}

func (d *DB) Close() error {
	d.logger.Info("Closing MongoDB connection")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

func (d *DB) Health(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}
