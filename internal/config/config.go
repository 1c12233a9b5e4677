package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment
// variables and an optional local secrets file.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset paths: preferred first, fallback second.
	CSVPath         string
	CSVFallbackPath string
	CacheTTL        time.Duration

	// Map style provider credential. Empty falls back to public tiles.
	SecretsPath string
	MapboxToken string
}

// Load reads configuration from environment variables, applying
// defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDurationEnv("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CSVPath:         envOrDefault("CASEMAP_CSV", "data/cases.csv"),
		CSVFallbackPath: envOrDefault("CASEMAP_CSV_FALLBACK", "cases.csv"),
		CacheTTL:        cacheTTL,
		SecretsPath:     envOrDefault("CASEMAP_SECRETS", ".casemap/secrets.env"),
	}

	cfg.MapboxToken = resolveMapboxToken(cfg.SecretsPath)
	return cfg, nil
}

// resolveMapboxToken prefers the environment, then the optional
// secrets file. An absent token is not an error; it selects the
// public tile fallback.
func resolveMapboxToken(secretsPath string) string {
	if v := os.Getenv("MAPBOX_API_KEY"); v != "" {
		return v
	}
	if secretsPath == "" {
		return ""
	}
	if _, err := os.Stat(secretsPath); err != nil {
		return ""
	}
	values, err := godotenv.Read(secretsPath)
	if err != nil {
		return ""
	}
	return values["MAPBOX_API_KEY"]
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
