package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/landing-leads/internal/config"
	"github.com/wolfman30/landing-leads/internal/ratelimit"
	"github.com/wolfman30/landing-leads/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, falling back to in-memory rate limiting", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// Limiters holds the two throttles the API applies.
type Limiters struct {
	Leads ratelimit.Limiter
	Admin ratelimit.Limiter
}

// BuildLimiters uses Redis when a client is given so that every instance
// shares one window per client, and process memory otherwise.
func BuildLimiters(cfg *appconfig.Config, client *redis.Client, logger *logging.Logger) Limiters {
	if logger == nil {
		logger = logging.Default()
	}
	if client == nil {
		logger.Info("rate limiting in memory", "window", cfg.RateLimitWindow, "max", cfg.RateLimitMax)
		return Limiters{
			Leads: ratelimit.NewMemory(cfg.RateLimit()),
			Admin: ratelimit.NewMemory(cfg.AdminRateLimit()),
		}
	}
	logger.Info("rate limiting in redis", "window", cfg.RateLimitWindow, "max", cfg.RateLimitMax)
	return Limiters{
		Leads: ratelimit.NewRedis(client, ratelimit.RedisConfig{Config: cfg.RateLimit(), KeyPrefix: "ratelimit:leads"}),
		Admin: ratelimit.NewRedis(client, ratelimit.RedisConfig{Config: cfg.AdminRateLimit(), KeyPrefix: "ratelimit:admin"}),
	}
}
