package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "API_URL", "ANALYZE_TIMEOUT", "MAX_FILE_SIZE",
		"WORKER_CONCURRENCY", "WORKER_QUEUE_SIZE", "SESSION_TTL", "SESSION_SWEEP_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	if cfg.Server.Port != "3000" {
		t.Errorf("Expected port 3000, got %s", cfg.Server.Port)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("Expected development env, got %s", cfg.Server.Env)
	}
	if cfg.Analyzer.APIURL != "http://localhost:5000" {
		t.Errorf("Expected default API URL, got %s", cfg.Analyzer.APIURL)
	}
	if cfg.Analyzer.Timeout != 30*time.Second {
		t.Errorf("Expected 30s analyze timeout, got %v", cfg.Analyzer.Timeout)
	}
	if cfg.Storage.MaxFileSize != 10485760 {
		t.Errorf("Expected 10MiB max file size, got %d", cfg.Storage.MaxFileSize)
	}
	if cfg.Worker.Concurrency != 3 || cfg.Worker.QueueSize != 100 {
		t.Errorf("Unexpected worker config: %+v", cfg.Worker)
	}
	if cfg.Session.TTL != 30*time.Minute || cfg.Session.SweepInterval != time.Minute {
		t.Errorf("Unexpected session config: %+v", cfg.Session)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("API_URL", "http://analyzer.internal:8080")
	t.Setenv("ANALYZE_TIMEOUT", "5s")
	t.Setenv("WORKER_CONCURRENCY", "7")
	t.Setenv("ENV", "production")

	cfg := FromEnv()

	if cfg.Analyzer.APIURL != "http://analyzer.internal:8080" {
		t.Errorf("Expected overridden API URL, got %s", cfg.Analyzer.APIURL)
	}
	if cfg.Analyzer.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.Analyzer.Timeout)
	}
	if cfg.Worker.Concurrency != 7 {
		t.Errorf("Expected concurrency 7, got %d", cfg.Worker.Concurrency)
	}
	if cfg.IsDevelopment() {
		t.Error("Expected production env")
	}
}

func TestFromEnvInvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(*Config) bool
	}{
		{"bad duration", "ANALYZE_TIMEOUT", "soon", func(c *Config) bool { return c.Analyzer.Timeout == 30*time.Second }},
		{"negative duration", "SESSION_TTL", "-5m", func(c *Config) bool { return c.Session.TTL == 30*time.Minute }},
		{"bad int", "WORKER_CONCURRENCY", "many", func(c *Config) bool { return c.Worker.Concurrency == 3 }},
		{"zero int", "WORKER_QUEUE_SIZE", "0", func(c *Config) bool { return c.Worker.QueueSize == 100 }},
		{"bad int64", "MAX_FILE_SIZE", "big", func(c *Config) bool { return c.Storage.MaxFileSize == 10485760 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if !tt.check(FromEnv()) {
				t.Errorf("Expected default for %s=%q", tt.key, tt.value)
			}
		})
	}
}
