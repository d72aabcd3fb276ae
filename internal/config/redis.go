package config

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from cfg.  With REDIS_TLS the server
// certificate is verified unless REDIS_TLS_INSECURE is also set.
func RedisOptions(cfg Config) *redis.Options {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	if cfg.RedisTLS {
		host, _, err := net.SplitHostPort(cfg.RedisAddr)
		if err != nil {
			host = cfg.RedisAddr
		}
		opts.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			ServerName:         host,
			InsecureSkipVerify: cfg.RedisTLSInsecure, // explicit opt-in for self-signed dev servers
		}
	}
	return opts
}

// NewRedisClient connects to Redis and pings it.  When the server cannot
// be reached the failure is logged and nil is returned: client storage
// falls back to memory and rate limiting is switched off.
func NewRedisClient(ctx context.Context, cfg Config, log *slog.Logger) *redis.Client {
	if log == nil {
		log = slog.Default()
	}
	client := redis.NewClient(RedisOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis: ping failed", "addr", cfg.RedisAddr, "tls", cfg.RedisTLS, "err", err)
		_ = client.Close()
		return nil
	}
	return client
}
