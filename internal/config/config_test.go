package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(lookupFrom(map[string]string{
		"PORT":         "8080",
		"RIOT_API_KEY": "RGAPI-test",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "profiles.db", cfg.DBName)
	assert.Equal(t, 3, cfg.DBConns)
	assert.Equal(t, "RGAPI-test", cfg.Riot.APIKey)
	assert.Equal(t, "https://americas.api.riotgames.com", cfg.Riot.AccountURL)
	assert.Equal(t, "https://na1.api.riotgames.com", cfg.Riot.PlatformURL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.ServeStaleOnError)
	assert.Equal(t, 15*time.Second, cfg.Timeouts.Request)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(lookupFrom(map[string]string{
		"PORT":                 "9000",
		"RIOT_API_KEY":         "key",
		"DB_NAME":              "postgres://localhost/rift",
		"DB_MAX_CONNS":         "8",
		"CACHE_TTL":            "2m",
		"REQUEST_TIMEOUT":      "3s",
		"SERVE_STALE_ON_ERROR": "true",
		"RIOT_RATE_LIMIT":      "0.5",
		"RIOT_RATE_BURST":      "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/rift", cfg.DBName)
	assert.Equal(t, 8, cfg.DBConns)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 3*time.Second, cfg.Timeouts.Request)
	assert.True(t, cfg.Cache.ServeStaleOnError)
	assert.Equal(t, 0.5, cfg.Riot.RateLimit)
	assert.Equal(t, 1, cfg.Riot.RateBurst)
}

func TestParse_Errors(t *testing.T) {
	t.Run("missing required", func(t *testing.T) {
		_, err := Parse(lookupFrom(map[string]string{"PORT": "8080"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RIOT_API_KEY")
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Parse(lookupFrom(map[string]string{
			"PORT":         "8080",
			"RIOT_API_KEY": "key",
			"CACHE_TTL":    "ten minutes",
		}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CACHE_TTL")
	})
}
