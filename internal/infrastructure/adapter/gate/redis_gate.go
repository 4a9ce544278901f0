package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces the stock counters in Redis
const DefaultKeyPrefix = "flash_sale:stock:"

// luaAddIfExists adjusts an existing counter and returns nil for a missing
// key, so a decrement or compensation never recreates an invalidated counter.
var luaAddIfExists = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return nil
end
return redis.call('INCRBY', KEYS[1], ARGV[1])
`)

// RedisGate keeps the counters in Redis so every service instance shares them.
// Every operation is a single command or script and therefore atomic.
type RedisGate struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// RedisGateOption configures a RedisGate
type RedisGateOption func(*RedisGate)

// WithKeyPrefix overrides the key namespace
func WithKeyPrefix(prefix string) RedisGateOption {
	return func(g *RedisGate) {
		if prefix != "" {
			g.keyPrefix = prefix
		}
	}
}

// WithTTL expires seeded counters after ttl; zero keeps them until invalidated
func WithTTL(ttl time.Duration) RedisGateOption {
	return func(g *RedisGate) { g.ttl = ttl }
}

// NewRedisGate creates a RedisGate over an existing client
func NewRedisGate(client redis.UniversalClient, opts ...RedisGateOption) *RedisGate {
	g := &RedisGate{client: client, keyPrefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ usecase.StockGate = (*RedisGate)(nil)

// StockKey returns the Redis key of a sale's counter
func (g *RedisGate) StockKey(saleID string) string {
	return g.keyPrefix + saleID
}

// Read returns the counter value, or ok=false when the key does not exist
func (g *RedisGate) Read(ctx context.Context, saleID string) (int64, bool, error) {
	value, err := g.client.Get(ctx, g.StockKey(saleID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read stock gate: %w", err)
	}
	return value, true, nil
}

// Initialize sets the counter with SETNX so a concurrent seed never overwrites
func (g *RedisGate) Initialize(ctx context.Context, saleID string, value int64) error {
	if err := g.client.SetNX(ctx, g.StockKey(saleID), value, g.ttl).Err(); err != nil {
		return fmt.Errorf("initialize stock gate: %w", err)
	}
	return nil
}

// Decrement subtracts one from an existing counter; the result may be negative
func (g *RedisGate) Decrement(ctx context.Context, saleID string) (int64, error) {
	value, err := g.add(ctx, saleID, -1)
	if err != nil {
		return 0, fmt.Errorf("decrement stock gate: %w", err)
	}
	return value, nil
}

// Increment adds one to an existing counter
func (g *RedisGate) Increment(ctx context.Context, saleID string) (int64, error) {
	value, err := g.add(ctx, saleID, 1)
	if err != nil {
		return 0, fmt.Errorf("increment stock gate: %w", err)
	}
	return value, nil
}

func (g *RedisGate) add(ctx context.Context, saleID string, delta int64) (int64, error) {
	value, err := luaAddIfExists.Run(ctx, g.client, []string{g.StockKey(saleID)}, delta).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, usecase.ErrGateCold
	}
	return value, err
}

// Invalidate deletes the counter
func (g *RedisGate) Invalidate(ctx context.Context, saleID string) error {
	if err := g.client.Del(ctx, g.StockKey(saleID)).Err(); err != nil {
		return fmt.Errorf("invalidate stock gate: %w", err)
	}
	return nil
}
