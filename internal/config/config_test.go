package config

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("API_BASE_URL", "http://backend.local/api")
	t.Setenv("CLIENT_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://guest:guest@mq:5672/")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://backend.local/api", cfg.APIBaseURL)
	assert.Equal(t, StorageRedis, cfg.StorageBackend)
	assert.Equal(t, "console_client", cfg.CookieName)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdle)
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQURL)
	assert.Empty(t, cfg.DBHost)
}

func TestLoadMySQLBackendReadsDatabase(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", "MySQL")
	t.Setenv("DB_USER", "console")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "console")

	cfg := Load()

	assert.Equal(t, StorageMySQL, cfg.StorageBackend)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "console", cfg.DBName)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "IP_Route")

	rl, err := LoadRateLimitConfig()

	require.NoError(t, err)
	assert.False(t, rl.Enabled)
	assert.Equal(t, 3, rl.Capacity)
	assert.Equal(t, 1, rl.RefillTokens)
	assert.Equal(t, time.Minute, rl.RefillInterval)
	assert.Equal(t, KeyIPRoute, rl.KeyStrategy)
	assert.Equal(t, 5*time.Minute, rl.TTL, "ttl is raised to five refill intervals")
}

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	rl, err := LoadRateLimitConfig()

	require.NoError(t, err)
	assert.True(t, rl.Enabled)
	assert.Equal(t, KeyClientRoute, rl.KeyStrategy)
	assert.Equal(t, "console:rl", rl.Prefix)
}

func TestRateLimitValidateRejects(t *testing.T) {
	valid := func() RateLimitConfig {
		return RateLimitConfig{Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, KeyStrategy: KeyClient, Prefix: "rl"}
	}
	cases := map[string]func(*RateLimitConfig){
		"unknown strategy": func(c *RateLimitConfig) { c.KeyStrategy = "ip_user_route" },
		"zero capacity":    func(c *RateLimitConfig) { c.Capacity = 0 },
		"zero refill":      func(c *RateLimitConfig) { c.RefillTokens = 0 },
		"no interval":      func(c *RateLimitConfig) { c.RefillInterval = 0 },
		"empty prefix":     func(c *RateLimitConfig) { c.Prefix = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			rl := valid()
			mutate(&rl)
			assert.Error(t, rl.Validate())
		})
	}

	rl := valid()
	assert.NoError(t, rl.Validate())
}

func TestLoadRedisSettings(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_ADDR", "ignored:1")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.RedisTLS)
	assert.False(t, cfg.RedisTLSInsecure)
}

func TestRedisOptionsVerifiesTLSByDefault(t *testing.T) {
	opts := RedisOptions(Config{RedisAddr: "cache.internal:6380", RedisTLS: true})
	require.NotNil(t, opts.TLSConfig)
	assert.False(t, opts.TLSConfig.InsecureSkipVerify)
	assert.Equal(t, "cache.internal", opts.TLSConfig.ServerName)

	opts = RedisOptions(Config{RedisAddr: "cache.internal:6380", RedisTLS: true, RedisTLSInsecure: true})
	assert.True(t, opts.TLSConfig.InsecureSkipVerify)

	assert.Nil(t, RedisOptions(Config{RedisAddr: "localhost:6379"}).TLSConfig)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	rdb := NewRedisClient(context.Background(), Config{RedisAddr: mr.Addr()}, quiet)
	require.NotNil(t, rdb)
	t.Cleanup(func() { _ = rdb.Close() })

	var logs bytes.Buffer
	down := NewRedisClient(context.Background(), Config{RedisAddr: "127.0.0.1:1"}, slog.New(slog.NewTextHandler(&logs, nil)))
	assert.Nil(t, down)
	assert.Contains(t, logs.String(), "redis: ping failed")
}
