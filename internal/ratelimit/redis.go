package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims, counts and conditionally records in one round
// trip so concurrent instances cannot overshoot the limit.
//
// KEYS[1] sorted set key
// ARGV[1] now (unix micros), ARGV[2] window (micros), ARGV[3] max, ARGV[4] member
// Returns {allowed, count, oldest}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < max then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, math.ceil(window / 1000))
  count = count + 1
  allowed = 1
end

local oldest = now
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
  oldest = tonumber(first[2])
end
return {allowed, count, oldest}
`)

// RedisConfig configures the shared limiter.
type RedisConfig struct {
	Config
	KeyPrefix string
}

// Redis is a sliding-window limiter whose state lives in Redis sorted sets,
// so every API instance sees the same counts.
type Redis struct {
	client *redis.Client
	cfg    Config
	prefix string
	now    func() time.Time
}

// NewRedis returns a limiter backed by client.
func NewRedis(client *redis.Client, cfg RedisConfig) *Redis {
	if client == nil {
		panic("ratelimit: redis client required")
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &Redis{
		client: client,
		cfg:    cfg.Config.withDefaults(),
		prefix: prefix,
		now:    time.Now,
	}
}

// Check runs the sliding-window script for identifier.
func (r *Redis) Check(ctx context.Context, identifier string) (Result, error) {
	now := r.now()
	values, err := slidingWindowScript.Run(ctx, r.client,
		[]string{r.key(identifier)},
		now.UnixMicro(),
		r.cfg.Window.Microseconds(),
		r.cfg.Max,
		fmt.Sprintf("%d-%s", now.UnixMicro(), uuid.NewString()),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: redis script: %w", err)
	}
	if len(values) != 3 {
		return Result{}, fmt.Errorf("ratelimit: unexpected script reply %v", values)
	}

	allowed := values[0] == 1
	count := int(values[1])
	remaining := r.cfg.Max - count
	if !allowed || remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   allowed,
		Limit:     r.cfg.Max,
		Remaining: remaining,
		Reset:     time.UnixMicro(values[2]).Add(r.cfg.Window),
	}, nil
}

func (r *Redis) key(identifier string) string {
	return r.prefix + ":" + identifier
}

var _ Limiter = (*Redis)(nil)
