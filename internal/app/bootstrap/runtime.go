package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/naturesvirtue-bot/internal/config"
	"github.com/wolfman30/naturesvirtue-bot/internal/events"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

const redisPingTimeout = 3 * time.Second

// BuildRedisClient returns a Redis client for inbound dedup, or nil when
// REDIS_ADDR is unset. With verify, an unreachable server also yields nil so
// the caller degrades to in-memory dedup instead of failing startup.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	client := redis.NewClient(redisOptions(cfg))
	if !verify {
		return client
	}

	if ctx == nil {
		ctx = context.Background()
	}
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis not available, falling back to in-memory dedup", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

func redisOptions(cfg *appconfig.Config) *redis.Options {
	opts := &redis.Options{
		Addr:     strings.TrimSpace(cfg.RedisAddr),
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// BuildProcessedStore picks the inbound dedup backend: redis when a client is
// available, process memory otherwise.
func BuildProcessedStore(client *redis.Client, cfg *appconfig.Config, logger *logging.Logger) events.ProcessedStore {
	if logger == nil {
		logger = logging.Default()
	}
	ttl := events.DefaultTTL
	if cfg != nil && cfg.DedupTTL > 0 {
		ttl = cfg.DedupTTL
	}
	if client == nil {
		logger.Info("using in-memory inbound dedup", "ttl", ttl)
		return events.NewMemoryProcessedStore(ttl)
	}
	logger.Info("using redis inbound dedup", "addr", cfg.RedisAddr, "ttl", ttl)
	return events.NewRedisProcessedStore(client, ttl)
}
