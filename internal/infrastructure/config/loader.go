package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is the prefix of environment overrides, e.g. FS_DATABASE_HOST
const EnvPrefix = "FS"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
}

// LoadConfig loads configuration for the environment named by APP_ENV
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = loadDotEnvFile()

	return Load(getEnvironment(), ConfigPaths...)
}

// Load reads <env>.yaml from the first matching path, applies defaults and
// FS_ environment overrides, and validates the result. A missing file is
// not an error; defaults and environment variables still apply.
func Load(env string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.App.Environment = env
	// Comma-separated lists from the environment arrive as one element
	config.Kafka.Brokers = splitList(config.Kafka.Brokers)
	config.CORS.AllowedOrigins = splitList(config.CORS.AllowedOrigins)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadDotEnvFile loads the first .env file found in DotEnvPaths
func loadDotEnvFile() error {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for every setting
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "flash-sale")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.readTimeout", "15s")
	v.SetDefault("server.writeTimeout", "15s")
	v.SetDefault("server.idleTimeout", "60s")
	v.SetDefault("server.readHeaderTimeout", "10s")
	v.SetDefault("server.shutdownTimeout", "10s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "flash_sale")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.sqlitePath", "flash_sale.db")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", "30m")
	v.SetDefault("database.connMaxIdleTime", "15m")
	v.SetDefault("database.queryTimeout", "5s")
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.retryAttempts", 5)
	v.SetDefault("database.retryDelay", "500ms")
	v.SetDefault("database.autoMigrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dialTimeout", "5s")
	v.SetDefault("redis.retryAttempts", 5)

	v.SetDefault("gate.backend", "memory")
	v.SetDefault("gate.keyPrefix", "flash_sale:stock:")
	v.SetDefault("gate.ttl", "0s")

	v.SetDefault("ledger.commitQueue", true)
	v.SetDefault("ledger.commitQueueSize", 1000)

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.backend", "memory")
	v.SetDefault("rateLimit.globalLimit", 100)
	v.SetDefault("rateLimit.globalWindow", "1m")
	v.SetDefault("rateLimit.purchaseLimit", 5)
	v.SetDefault("rateLimit.purchaseWindow", "10s")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "flash-sale.purchases")
	v.SetDefault("kafka.requiredAcks", "all")
	v.SetDefault("kafka.retries", 3)

	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("admin.jwtSecret", "")
	v.SetDefault("admin.tokenTTL", "1h")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.production", false)

	v.SetDefault("sale.productName", "Limited Edition Mechanical Keyboard")
	v.SetDefault("sale.totalStock", 100)
	v.SetDefault("sale.duration", "30m")
}

// getEnvironment determines the environment from APP_ENV
func getEnvironment() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
