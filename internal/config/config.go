package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Log      LogConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host             string
	Port             int
	Env              string
	CORSAllowOrigins string
}

type StoreConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type MongoConfig struct {
	URI    string
	DBName string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

type CacheConfig struct {
	StatsCacheTTL time.Duration
}

type AuthConfig struct {
	JWTSecret   string
	JWTExpire   time.Duration
	JWTIssuer   string
	JWTAudience string
	PublicReads bool
	BcryptCost  int
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	BatchSize         int
	StreamReadTimeout time.Duration
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile - то же, что Load, но с явным путём к env-файлу.
// A missing file is not an error: environment variables alone are enough.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	expire, err := parseDuration(v.GetString("JWT_EXPIRE"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:             v.GetString("API_HOST"),
			Port:             v.GetInt("API_PORT"),
			Env:              v.GetString("API_ENV"),
			CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Mongo: MongoConfig{
			URI:    v.GetString("MONGO_URI"),
			DBName: v.GetString("MONGO_DB_NAME"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
			Timeout:  time.Duration(v.GetInt("REDIS_TIMEOUT")) * time.Millisecond,
		},
		Cache: CacheConfig{
			StatsCacheTTL: time.Duration(v.GetInt("STATS_CACHE_TTL")) * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret:   v.GetString("JWT_SECRET"),
			JWTExpire:   expire,
			JWTIssuer:   v.GetString("JWT_ISSUER"),
			JWTAudience: v.GetString("JWT_AUDIENCE"),
			PublicReads: v.GetBool("AUTH_PUBLIC_READS"),
			BcryptCost:  v.GetInt("BCRYPT_COST"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:         v.GetInt("WORKER_BATCH_SIZE"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 5000)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")

	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "ev_stations")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "charging-stations")

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_TIMEOUT", 3000)

	v.SetDefault("STATS_CACHE_TTL", 300)

	v.SetDefault("JWT_EXPIRE", "7d")
	v.SetDefault("JWT_ISSUER", "charging-station-api")
	v.SetDefault("JWT_AUDIENCE", "charging-station-app")
	v.SetDefault("AUTH_PUBLIC_READS", false)
	v.SetDefault("BCRYPT_COST", 12)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_ENABLED", true)
	v.SetDefault("WORKER_CONSUMER_GROUP", "station-stats-workers")
	v.SetDefault("WORKER_BATCH_SIZE", 50)
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMongo, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Worker.BatchSize <= 0 {
		return errors.New("WORKER_BATCH_SIZE must be positive")
	}
	return nil
}

// parseDuration понимает "7d" в дополнение к формату time.ParseDuration
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		var days int
		if _, err := fmt.Sscanf(strings.TrimSuffix(s, "d"), "%d", &days); err != nil {
			return 0, err
		}
		if days <= 0 {
			return 0, fmt.Errorf("duration must be positive: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// IsProduction reports whether API_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
