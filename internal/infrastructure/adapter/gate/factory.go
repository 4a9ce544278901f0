package gate

import (
	"fmt"
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
	"github.com/redis/go-redis/v9"
)

// Supported gate backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// New builds the gate for the configured backend. client is only used by the redis backend.
func New(backend string, client redis.UniversalClient, keyPrefix string, ttl time.Duration) (usecase.StockGate, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryGate(), nil
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("redis gate requires a redis client")
		}
		return NewRedisGate(client, WithKeyPrefix(keyPrefix), WithTTL(ttl)), nil
	default:
		return nil, fmt.Errorf("unsupported gate backend: %s", backend)
	}
}
