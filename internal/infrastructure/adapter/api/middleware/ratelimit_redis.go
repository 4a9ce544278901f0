package middleware

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims the window, counts it and records the request
// only when it fits. Returns -1 when the key is over its limit.
// KEYS[1]=key ARGV[1]=now ms ARGV[2]=window start ms ARGV[3]=window ms
// ARGV[4]=member ARGV[5]=limit
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowMs = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)

if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, member)
  redis.call('PEXPIRE', key, windowMs)
  return count + 1
end
return -1
`)

// RedisLimiter is a sliding-window limiter shared by every API instance
type RedisLimiter struct {
	client    redis.UniversalClient
	keyPrefix string
	limit     int
	window    time.Duration
	instance  uint32
	seq       atomic.Uint64
	now       func() time.Time
}

// NewRedisLimiter creates a limiter allowing limit requests per window for each key
func NewRedisLimiter(client redis.UniversalClient, keyPrefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		limit:     limit,
		window:    window,
		instance:  rand.Uint32(),
		now:       time.Now,
	}
}

// Allow implements Limiter
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := r.now().UnixMilli()
	windowMs := r.window.Milliseconds()
	member := fmt.Sprintf("%d-%08x-%d", now, r.instance, r.seq.Add(1))

	res, err := slidingWindowScript.Run(ctx, r.client, []string{r.keyPrefix + key},
		now, now-windowMs, windowMs, member, r.limit).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}
	return res >= 0, nil
}
