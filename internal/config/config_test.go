package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost:5432/chat
redis:
  url: localhost:6379
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Transcription.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %s, want 2s", cfg.Transcription.PollInterval)
	}
	if cfg.Transcription.MaxWait != 3*time.Minute {
		t.Errorf("MaxWait = %s, want 3m", cfg.Transcription.MaxWait)
	}
	if cfg.Transcription.TransientRetries != 3 {
		t.Errorf("TransientRetries = %d, want 3", cfg.Transcription.TransientRetries)
	}
	if cfg.Providers.GroqModel != "llama-3.3-70b-versatile" {
		t.Errorf("GroqModel = %q", cfg.Providers.GroqModel)
	}
	if cfg.Server.MediaBaseURL != "http://localhost:5000/media" {
		t.Errorf("MediaBaseURL = %q", cfg.Server.MediaBaseURL)
	}
	if !cfg.Runtime.Dev {
		t.Error("Runtime.Dev not set")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  rate_limit: 5
database:
  url: postgres://localhost:5432/chat
redis:
  url: localhost:6379
  ttl: 30m
transcription:
  poll_interval: 500ms
  max_wait: 1m
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.RateLimit != 5 {
		t.Errorf("server overrides lost: %+v", cfg.Server)
	}
	if cfg.Redis.TTL != 30*time.Minute {
		t.Errorf("TTL = %s, want 30m", cfg.Redis.TTL)
	}
	if cfg.Transcription.PollInterval != 500*time.Millisecond || cfg.Transcription.MaxWait != time.Minute {
		t.Errorf("transcription overrides lost: %+v", cfg.Transcription)
	}
	if cfg.Server.MediaBaseURL != "http://localhost:8080/media" {
		t.Errorf("MediaBaseURL = %q", cfg.Server.MediaBaseURL)
	}
}

func TestLoadConfigRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing database", "redis:\n  url: localhost:6379\n"},
		{"missing redis", "database:\n  url: postgres://localhost/chat\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := LoadConfig(path, false); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMissingProviderKeys(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost:5432/chat
redis:
  url: localhost:6379
providers:
  groq_key: gsk_test
  weather_key: w_test
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	missing := cfg.MissingProviderKeys()
	want := map[string]bool{
		"providers.assemblyai_key": true,
		"providers.hf_key":         true,
		"providers.news_key":       true,
	}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v", missing)
	}
	for _, m := range missing {
		if !want[m] {
			t.Fatalf("unexpected missing key %q", m)
		}
	}
}
