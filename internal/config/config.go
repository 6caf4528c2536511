package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	defaultDBName      = "profiles.db"
	defaultDBConns     = 3
	defaultAccountURL  = "https://americas.api.riotgames.com"
	defaultPlatformURL = "https://na1.api.riotgames.com"
	defaultRateLimit   = 20
	defaultRateBurst   = 20
	defaultCacheTTL    = 10 * time.Minute
	defaultReqTimeout  = 15 * time.Second
	defaultShutdown    = 30 * time.Second
)

// Load reads configuration from environment variables and .env file.
// It exits the process if a required variable is missing or malformed.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := Parse(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %s", err)
	}
	return cfg
}

// Parse builds a Config from the given lookup function.
func Parse(lookup func(string) (string, bool)) (Config, error) {
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	required := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		fail(fmt.Errorf("required environment variable %s is not set", key))
		return ""
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}
	duration := func(key string, fallback time.Duration) time.Duration {
		raw, ok := lookup(key)
		if !ok || raw == "" {
			return fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			fail(fmt.Errorf("invalid duration for %s: %q", key, raw))
			return fallback
		}
		return d
	}
	integer := func(key string, fallback int) int {
		raw, ok := lookup(key)
		if !ok || raw == "" {
			return fallback
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			fail(fmt.Errorf("invalid integer for %s: %q", key, raw))
			return fallback
		}
		return n
	}
	number := func(key string, fallback float64) float64 {
		raw, ok := lookup(key)
		if !ok || raw == "" {
			return fallback
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			fail(fmt.Errorf("invalid number for %s: %q", key, raw))
			return fallback
		}
		return f
	}
	boolean := func(key string) bool {
		raw, ok := lookup(key)
		if !ok || raw == "" {
			return false
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			fail(fmt.Errorf("invalid boolean for %s: %q", key, raw))
			return false
		}
		return b
	}

	cfg := Config{
		DBName:  optional("DB_NAME", defaultDBName),
		DBConns: integer("DB_MAX_CONNS", defaultDBConns),
		Port:    required("PORT"),
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		Riot: RiotConfig{
			APIKey:      required("RIOT_API_KEY"),
			AccountURL:  optional("RIOT_ACCOUNT_URL", defaultAccountURL),
			PlatformURL: optional("RIOT_PLATFORM_URL", defaultPlatformURL),
			RateLimit:   number("RIOT_RATE_LIMIT", defaultRateLimit),
			RateBurst:   integer("RIOT_RATE_BURST", defaultRateBurst),
		},
		Cache: CacheConfig{
			TTL:               duration("CACHE_TTL", defaultCacheTTL),
			ServeStaleOnError: boolean("SERVE_STALE_ON_ERROR"),
		},
		Timeouts: TimeoutConfig{
			Request:  duration("REQUEST_TIMEOUT", defaultReqTimeout),
			Shutdown: duration("SHUTDOWN_TIMEOUT", defaultShutdown),
		},
	}
	return cfg, firstErr
}
