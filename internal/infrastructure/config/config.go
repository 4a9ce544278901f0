package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Gate      GateConfig      `mapstructure:"gate"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sale      SaleConfig      `mapstructure:"sale"`
}

// AppConfig identifies the running service
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslMode"`
	SQLitePath      string        `mapstructure:"sqlitePath"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"`
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`
	LogLevel        string        `mapstructure:"logLevel"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"`
	AutoMigrate     bool          `mapstructure:"autoMigrate"`
}

// RedisConfig contains the Redis client settings shared by the gate and the rate limiter
type RedisConfig struct {
	Addr          string        `mapstructure:"addr"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	DialTimeout   time.Duration `mapstructure:"dialTimeout"`
	RetryAttempts int           `mapstructure:"retryAttempts"`
}

// GateConfig selects the admission gate backend
type GateConfig struct {
	Backend   string        `mapstructure:"backend"`
	KeyPrefix string        `mapstructure:"keyPrefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// LedgerConfig tunes the purchase commit path
type LedgerConfig struct {
	// CommitQueue funnels commits for one sale through a single worker
	CommitQueue     bool `mapstructure:"commitQueue"`
	CommitQueueSize int  `mapstructure:"commitQueueSize"`
}

// RateLimitConfig contains the request throttling settings
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Backend        string        `mapstructure:"backend"`
	GlobalLimit    int           `mapstructure:"globalLimit"`
	GlobalWindow   time.Duration `mapstructure:"globalWindow"`
	PurchaseLimit  int           `mapstructure:"purchaseLimit"`
	PurchaseWindow time.Duration `mapstructure:"purchaseWindow"`
}

// KafkaConfig contains the purchase event publisher settings
type KafkaConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Brokers      []string `mapstructure:"brokers"`
	Topic        string   `mapstructure:"topic"`
	RequiredAcks string   `mapstructure:"requiredAcks"`
	Retries      int      `mapstructure:"retries"`
}

// CORSConfig lists the browser origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// AdminConfig secures the admin routes
type AdminConfig struct {
	JWTSecret string        `mapstructure:"jwtSecret"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
}

// SaleConfig holds the defaults used when seeding a sale
type SaleConfig struct {
	ProductName string        `mapstructure:"productName"`
	TotalStock  int64         `mapstructure:"totalStock"`
	Duration    time.Duration `mapstructure:"duration"`
}

// Validate rejects inconsistent configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	switch c.Gate.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported gate backend: %q", c.Gate.Backend)
	}

	if c.RateLimit.Enabled {
		switch c.RateLimit.Backend {
		case "memory", "redis":
		default:
			return fmt.Errorf("unsupported rate limit backend: %q", c.RateLimit.Backend)
		}
		if c.RateLimit.GlobalLimit <= 0 || c.RateLimit.GlobalWindow <= 0 {
			return errors.New("global rate limit and window must be positive")
		}
		if c.RateLimit.PurchaseLimit <= 0 || c.RateLimit.PurchaseWindow <= 0 {
			return errors.New("purchase rate limit and window must be positive")
		}
	}

	if (c.Gate.Backend == "redis" || (c.RateLimit.Enabled && c.RateLimit.Backend == "redis")) && c.Redis.Addr == "" {
		return errors.New("redis address is required by the redis gate or rate limiter")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("kafka brokers are required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return errors.New("kafka topic is required when kafka is enabled")
		}
	}

	if c.Ledger.CommitQueue && c.Ledger.CommitQueueSize <= 0 {
		return fmt.Errorf("commit queue size must be positive, got: %d", c.Ledger.CommitQueueSize)
	}

	if c.App.Environment == Production && len(c.Admin.JWTSecret) < 32 {
		return errors.New("admin jwt secret must be at least 32 bytes in production")
	}

	if c.Sale.TotalStock < 0 {
		return fmt.Errorf("sale total stock must be non-negative, got: %d", c.Sale.TotalStock)
	}

	return nil
}
