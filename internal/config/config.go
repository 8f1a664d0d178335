// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for the demo host's operational
// settings — resource limits, tick rate, server, and rate limiting.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"

	"github.com/fightclub-sim/wolfden/internal/coordinator"
)

// =============================================================================
// SIMULATION TICK CONFIGURATION
// =============================================================================

// TickConfig controls how often the demo host advances the
// simulation core. This is independent of any client frame rate — the
// core itself is fixed-step internally (physics.WorldConfig). The
// demo host only logs RateHz as a hint; Coordinator.Tick runs when a
// client calls the API's tick command, with the client's own delta.
type TickConfig struct {
	RateHz int // simulation ticks per second
}

// DefaultTick returns the default tick configuration.
func DefaultTick() TickConfig {
	return TickConfig{
		RateHz: 60,
	}
}

// TickFromEnv returns tick configuration with environment variable overrides.
func TickFromEnv() TickConfig {
	cfg := DefaultTick()

	if hz := getEnvInt("WOLFDEN_TICK_RATE", 0); hz > 0 {
		cfg.RateHz = hz
	}

	return cfg
}

// DeltaSeconds is the fixed per-tick duration this rate implies.
func (c TickConfig) DeltaSeconds() float64 {
	if c.RateHz <= 0 {
		return 0
	}
	return 1.0 / float64(c.RateHz)
}

// =============================================================================
// GAME RESOURCE LIMITS
// =============================================================================

// DefaultLimits returns the default resource limits, the same
// DoS-protection values Coordinator.New uses when a host doesn't
// override them.
func DefaultLimits() coordinator.ResourceLimits {
	return coordinator.DefaultResourceLimits()
}

// LimitsFromEnv returns resource limits with environment variable overrides.
func LimitsFromEnv() coordinator.ResourceLimits {
	cfg := DefaultLimits()

	if mw := getEnvInt("WOLFDEN_MAX_WOLVES", 0); mw > 0 {
		cfg.MaxWolves = mw
	}
	if mp := getEnvInt("WOLFDEN_MAX_PACKS", 0); mp > 0 {
		cfg.MaxPacks = mp
	}
	if mb := getEnvInt("WOLFDEN_MAX_BODIES", 0); mb > 0 {
		cfg.MaxBodies = mb
	}

	return cfg
}

// =============================================================================
// RATE LIMIT CONFIGURATION
// =============================================================================

// RateLimitConfig holds token-bucket limiter settings read from the
// environment. The demo host does not pass them to the API server,
// which uses api.DefaultRateLimitConfig on every route.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultRateLimit returns the default rate-limit configuration.
func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 30,
		Burst:             10,
	}
}

// RateLimitFromEnv returns rate-limit configuration with environment variable overrides.
func RateLimitFromEnv() RateLimitConfig {
	cfg := DefaultRateLimit()

	if rps := getEnvFloat("WOLFDEN_RATE_LIMIT_RPS", -1); rps >= 0 {
		cfg.RequestsPerSecond = rps
	}
	if b := getEnvInt("WOLFDEN_RATE_LIMIT_BURST", 0); b > 0 {
		cfg.Burst = b
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings for the demo host.
type ServerConfig struct {
	Port            int
	MaxConnections  int // read from the environment; the websocket hub applies its own caps
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:           3000,
		MaxConnections: 100,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if mc := getEnvInt("WOLFDEN_MAX_CONNECTIONS", 0); mc > 0 {
		cfg.MaxConnections = mc
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete demo host configuration.
type AppConfig struct {
	Tick      TickConfig
	Limits    coordinator.ResourceLimits
	RateLimit RateLimitConfig
	Server    ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Tick:      TickFromEnv(),
		Limits:    LimitsFromEnv(),
		RateLimit: RateLimitFromEnv(),
		Server:    ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
