// Package identity talks to the GoTrue-compatible auth provider. It resolves
// bearer tokens for authenticated submissions, provisions throwaway accounts
// for anonymous ones, and exposes the admin operations the account reaper
// needs. Admin calls are rate limited and guarded by a circuit breaker.
package identity

import (
	"fmt"
	"os"
	"time"

	"agora-forum/pkg/config"
)

// EphemeralEmailDomain is the synthetic domain for throwaway accounts.
// The reaper identifies ephemeral accounts by this suffix, so changing it
// orphans existing accounts.
const EphemeralEmailDomain = "agora.local"

// Config holds the auth provider connection settings.
type Config struct {
	// BaseURL is the auth service root, e.g. https://auth.example.com/auth/v1.
	BaseURL string

	// AnonKey is the public API key sent with user-scoped requests.
	AnonKey string

	// ServiceRoleKey authorizes admin endpoints (user creation, deletion,
	// listing). It must never appear in logs or responses.
	ServiceRoleKey string

	// Timeout bounds each individual HTTP call to the provider.
	Timeout time.Duration

	// AdminRequestsPerSecond throttles admin endpoint calls. GoTrue admin
	// routes are not built for bursts and the reaper can otherwise flood
	// them when listing large user sets.
	AdminRequestsPerSecond float64
}

// LoadConfig reads the auth provider settings from the environment.
//
// Environment variables:
//   - AUTH_URL: base URL of the auth service (required)
//   - AUTH_ANON_KEY: public API key (required)
//   - AUTH_SERVICE_ROLE_KEY: admin API key (required)
//   - AUTH_TIMEOUT: per-call timeout (default: 10s)
//   - AUTH_ADMIN_RPS: admin rate limit (default: 5)
func LoadConfig() (Config, error) {
	cfg := Config{
		BaseURL:                os.Getenv("AUTH_URL"),
		AnonKey:                os.Getenv("AUTH_ANON_KEY"),
		ServiceRoleKey:         os.Getenv("AUTH_SERVICE_ROLE_KEY"),
		Timeout:                config.GetEnvDuration("AUTH_TIMEOUT", 10*time.Second),
		AdminRequestsPerSecond: float64(config.GetEnvInt("AUTH_ADMIN_RPS", 5)),
	}

	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("AUTH_URL is required")
	}
	if cfg.AnonKey == "" {
		return Config{}, fmt.Errorf("AUTH_ANON_KEY is required")
	}
	if cfg.ServiceRoleKey == "" {
		return Config{}, fmt.Errorf("AUTH_SERVICE_ROLE_KEY is required")
	}
	if err := config.ValidatePositiveDuration(cfg.Timeout); err != nil {
		return Config{}, fmt.Errorf("AUTH_TIMEOUT: %w", err)
	}

	return cfg, nil
}
