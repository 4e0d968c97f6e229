// Package config internal/config/config.go
package config

import (
	"os"
	"time"
)

// Config carries every externally tunable value. It is loaded once in main
// and injected through constructors; nothing reads the environment after
// startup.
type Config struct {
	Addr string

	CacheFile string
	CacheTTL  time.Duration

	ExchangeRateAPIURL string
	FixerAPIURL        string
	FixerAPIKey        string

	LogLevel string
}

// Load reads configuration from the environment, applying defaults for
// anything unset. The Fixer API key defaults to absent, which degrades that
// provider to its keyless EUR-based mode.
func Load() *Config {
	return &Config{
		Addr:               envOr("ADDR", ":8080"),
		CacheFile:          envOr("CACHE_FILE", "exchange_cache.json"),
		CacheTTL:           durationOr("CACHE_TTL", time.Hour),
		ExchangeRateAPIURL: os.Getenv("EXCHANGE_RATE_API_URL"),
		FixerAPIURL:        os.Getenv("FIXER_API_URL"),
		FixerAPIKey:        os.Getenv("FIXER_API_KEY"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
