package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName   string
	DBConns  int
	Port     string
	Turso    TursoConfig
	Riot     RiotConfig
	Cache    CacheConfig
	Timeouts TimeoutConfig
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type RiotConfig struct {
	APIKey      string
	AccountURL  string
	PlatformURL string
	RateLimit   float64
	RateBurst   int
}
type CacheConfig struct {
	TTL               time.Duration
	ServeStaleOnError bool
}
type TimeoutConfig struct {
	Request  time.Duration
	Shutdown time.Duration
}
