// Package bootstrap builds the infrastructure shared by the API server and the seed tool.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/gate"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// NewLogger builds the zap logger described by the configuration
func NewLogger(cfg *config.Config) (*logger.ZapLogger, error) {
	return logger.NewZapLogger(logger.Options{
		Production: cfg.Logger.Production,
		Level:      cfg.Logger.Level,
	})
}

// OpenDatabase connects to the configured database and applies migrations
// when auto-migration is enabled
func OpenDatabase(ctx context.Context, cfg *config.Config, log coreport.Logger, tp coreport.TimeProvider) (*database.Manager, error) {
	manager := database.NewManager(database.FromAppConfig(cfg), log, tp)
	if _, err := manager.Connect(ctx); err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := manager.Migrate(ctx); err != nil {
			_ = manager.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return manager, nil
}

// NeedsRedis reports whether any configured component uses Redis
func NeedsRedis(cfg *config.Config) bool {
	return cfg.Gate.Backend == gate.BackendRedis ||
		(cfg.RateLimit.Enabled && cfg.RateLimit.Backend == "redis")
}

// NewRedisClient connects to Redis when a component needs it. It returns a
// nil client, not an error, when nothing does.
func NewRedisClient(ctx context.Context, cfg *config.Config, log coreport.Logger) (redis.UniversalClient, error) {
	if !NeedsRedis(cfg) {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})

	policy := database.DefaultRetryPolicy()
	if cfg.Redis.RetryAttempts > 0 {
		policy.Attempts = cfg.Redis.RetryAttempts
	}

	err := policy.Do(ctx, "redis", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}, func(error) bool { return true }, log)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	log.Info("Connected to redis", map[string]any{"addr": cfg.Redis.Addr, "db": cfg.Redis.DB})
	return client, nil
}

// NewGate builds the configured stock gate. client may be nil for the memory backend.
func NewGate(cfg *config.Config, client redis.UniversalClient) (usecase.StockGate, error) {
	return gate.New(cfg.Gate.Backend, client, cfg.Gate.KeyPrefix, cfg.Gate.TTL)
}

// SeedDefaults returns the configured sale seeding defaults
func SeedDefaults(cfg *config.Config) usecase.SeedOptions {
	return usecase.SeedOptions{
		ProductName: cfg.Sale.ProductName,
		TotalStock:  cfg.Sale.TotalStock,
		Duration:    cfg.Sale.Duration,
	}
}
