package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.RateLimit != 100 {
		t.Fatalf("RateLimit = %d, want 100", cfg.RateLimit)
	}
	if cfg.RateWindow != time.Minute {
		t.Fatalf("RateWindow = %v, want 1m", cfg.RateWindow)
	}
	if cfg.MaxResultRows != 20 {
		t.Fatalf("MaxResultRows = %d, want 20", cfg.MaxResultRows)
	}
	if len(cfg.ModelCandidates) != 4 || cfg.ModelCandidates[0] != "gemini-2.0-flash" {
		t.Fatalf("ModelCandidates = %v, want default priority list", cfg.ModelCandidates)
	}
	if cfg.GeminiAPIKey != "" {
		t.Fatalf("GeminiAPIKey = %q, want empty default", cfg.GeminiAPIKey)
	}
}

func TestLoadParsesModelList(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("GEMINI_MODELS", " gemini-2.0-flash , gemini-pro ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"gemini-2.0-flash", "gemini-pro"}
	if len(cfg.ModelCandidates) != len(want) {
		t.Fatalf("ModelCandidates = %v, want %v", cfg.ModelCandidates, want)
	}
	for i := range want {
		if cfg.ModelCandidates[i] != want[i] {
			t.Fatalf("ModelCandidates[%d] = %q, want %q", i, cfg.ModelCandidates[i], want[i])
		}
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"RATE_LIMIT", "0"},
		{"RATE_LIMIT", "not-a-number"},
		{"RATE_WINDOW", "100ms"},
		{"MAX_RESULT_ROWS", "-5"},
		{"MODEL_TIMEOUT", "10ms"},
		{"GEMINI_MODELS", " , "},
		{"APP_ALLOW_ANY_ORIGIN", "maybe"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			setCoreEnvEmpty(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%q succeeded, want error", tc.key, tc.value)
			}
		})
	}
}

func TestLoadRejectsRetentionShorterThanWindow(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("RATE_WINDOW", "2m")
	t.Setenv("RATE_RETENTION", "1m")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() succeeded with retention shorter than window, want error")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"DATABASE_URL",
		"SQLITE_PATH",
		"GEMINI_API_KEY",
		"GEMINI_MODELS",
		"MODEL_TIMEOUT",
		"QUERY_TIMEOUT",
		"MAX_RESULT_ROWS",
		"RATE_LIMIT",
		"RATE_WINDOW",
		"RATE_SWEEP_INTERVAL",
		"RATE_RETENTION",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}
