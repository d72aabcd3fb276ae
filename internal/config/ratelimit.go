package config

import (
	"fmt"
	"strings"
	"time"
)

// Key strategies for the rate limiter.  Each names what a bucket is
// shared by; the default gives every client cookie one bucket per route.
const (
	KeyClientRoute = "client_route"
	KeyClient      = "client"
	KeyRoute       = "route"
	KeyIP          = "ip"
	KeyIPRoute     = "ip_route"
)

// RateLimitConfig drives the token-bucket limiter in front of the sign-in,
// registration and password-reset actions.  A bucket holds Capacity
// tokens, gains RefillTokens every RefillInterval and expires after TTL of
// inactivity.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables and validates them.
func LoadRateLimitConfig() (RateLimitConfig, error) {
	rl := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 10),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    strings.ToLower(envStr("RATE_LIMIT_KEY_STRATEGY", KeyClientRoute)),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "console:rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if err := rl.Validate(); err != nil {
		return RateLimitConfig{}, err
	}
	return rl, nil
}

// Validate rejects settings the limiter cannot run with and raises TTL to
// at least five refill intervals so a bucket never expires mid-refill.
func (rl *RateLimitConfig) Validate() error {
	switch rl.KeyStrategy {
	case KeyClientRoute, KeyClient, KeyRoute, KeyIP, KeyIPRoute:
	default:
		return fmt.Errorf("config: unknown rate limit key strategy %q", rl.KeyStrategy)
	}
	if rl.Capacity < 1 {
		return fmt.Errorf("config: rate limit capacity must be at least 1, got %d", rl.Capacity)
	}
	if rl.RefillTokens < 1 {
		return fmt.Errorf("config: rate limit refill tokens must be at least 1, got %d", rl.RefillTokens)
	}
	if rl.RefillInterval <= 0 {
		return fmt.Errorf("config: rate limit refill interval must be positive, got %s", rl.RefillInterval)
	}
	if rl.Prefix == "" {
		return fmt.Errorf("config: rate limit prefix is empty")
	}
	if min := 5 * rl.RefillInterval; rl.TTL < min {
		rl.TTL = min
	}
	return nil
}
