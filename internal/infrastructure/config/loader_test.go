package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(Test, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.App.Environment)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Gate.Backend)
	assert.Equal(t, 100, cfg.RateLimit.GlobalLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.GlobalWindow)
	assert.Equal(t, 5, cfg.RateLimit.PurchaseLimit)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.PurchaseWindow)
	assert.Equal(t, int64(100), cfg.Sale.TotalStock)
	assert.Equal(t, 30*time.Minute, cfg.Sale.Duration)
	assert.ElementsMatch(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 8080
database:
  driver: postgres
  host: db.internal
gate:
  backend: redis
redis:
  addr: redis:6379
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staging.yaml"), yaml, 0o600))

	t.Setenv("FS_SERVER_PORT", "9090")
	t.Setenv("FS_KAFKA_ENABLED", "true")
	t.Setenv("FS_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load("staging", dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "redis", cfg.Gate.Backend)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestConfig_Validate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load(Test, t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Defaults", func(c *Config) {}, false},
		{"BadPort", func(c *Config) { c.Server.Port = 0 }, true},
		{"BadDriver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"BadGate", func(c *Config) { c.Gate.Backend = "etcd" }, true},
		{"RedisGateWithoutAddr", func(c *Config) { c.Gate.Backend = "redis"; c.Redis.Addr = "" }, true},
		{"KafkaWithoutBrokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }, true},
		{"ZeroPurchaseLimit", func(c *Config) { c.RateLimit.PurchaseLimit = 0 }, true},
		{"DisabledLimiterIgnoresLimits", func(c *Config) { c.RateLimit.Enabled = false; c.RateLimit.PurchaseLimit = 0 }, false},
		{"ProductionNeedsSecret", func(c *Config) { c.App.Environment = Production; c.Admin.JWTSecret = "short" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base(t)
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
