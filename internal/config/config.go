package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the college assistant service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	// DATABASE_URL selects the Postgres backend; empty falls back to the
	// embedded SQLite store at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	// GeminiAPIKey enables the model-assisted pipeline stages. When empty the
	// router answers from rules only and degrades to a static help message.
	GeminiAPIKey    string
	ModelCandidates []string
	ModelTimeout    time.Duration
	QueryTimeout    time.Duration
	MaxResultRows   int

	RateLimit          int
	RateWindow         time.Duration
	RateSweepInterval  time.Duration
	RateRetention      time.Duration
}

// DefaultModelCandidates is the priority-ordered probe list used when
// GEMINI_MODELS is not set. Different API keys support different models.
var DefaultModelCandidates = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-pro",
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "campusdesk"),
		AllowAnyOrigin:    false,
		DatabaseURL:       trimmedEnv("DATABASE_URL"),
		SQLitePath:        envOrDefault("SQLITE_PATH", ":memory:"),
		GeminiAPIKey:      trimmedEnv("GEMINI_API_KEY"),
		ModelCandidates:   DefaultModelCandidates,
		ShutdownTimeout:   15 * time.Second,
		ModelTimeout:      30 * time.Second,
		QueryTimeout:      10 * time.Second,
		MaxResultRows:     20,
		RateLimit:         100,
		RateWindow:        time.Minute,
		RateSweepInterval: 5 * time.Minute,
		RateRetention:     time.Minute,
	}

	if models := trimmedEnv("GEMINI_MODELS"); models != "" {
		parts := strings.Split(models, ",")
		candidates := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) == 0 {
			return Config{}, fmt.Errorf("GEMINI_MODELS must name at least one model")
		}
		cfg.ModelCandidates = candidates
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ModelTimeout, err = durationFromEnv("MODEL_TIMEOUT", cfg.ModelTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.QueryTimeout, err = durationFromEnv("QUERY_TIMEOUT", cfg.QueryTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxResultRows, err = intFromEnv("MAX_RESULT_ROWS", cfg.MaxResultRows)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimit, err = intFromEnv("RATE_LIMIT", cfg.RateLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.RateWindow, err = durationFromEnv("RATE_WINDOW", cfg.RateWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.RateSweepInterval, err = durationFromEnv("RATE_SWEEP_INTERVAL", cfg.RateSweepInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.RateRetention, err = durationFromEnv("RATE_RETENTION", cfg.RateRetention)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.ModelTimeout < time.Second {
		return Config{}, fmt.Errorf("MODEL_TIMEOUT must be at least 1s")
	}
	if cfg.QueryTimeout < time.Second {
		return Config{}, fmt.Errorf("QUERY_TIMEOUT must be at least 1s")
	}
	if cfg.MaxResultRows <= 0 {
		return Config{}, fmt.Errorf("MAX_RESULT_ROWS must be positive")
	}
	if cfg.RateLimit <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT must be positive")
	}
	if cfg.RateWindow < time.Second {
		return Config{}, fmt.Errorf("RATE_WINDOW must be at least 1s")
	}
	if cfg.RateSweepInterval < time.Second {
		return Config{}, fmt.Errorf("RATE_SWEEP_INTERVAL must be at least 1s")
	}
	if cfg.RateRetention < cfg.RateWindow {
		// Entries younger than a full window are still live bookkeeping.
		return Config{}, fmt.Errorf("RATE_RETENTION must be at least RATE_WINDOW")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(trimmedEnv(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
