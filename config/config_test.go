package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "5000" {
		t.Errorf("ServerPort = %q, want 5000", cfg.ServerPort)
	}
	if cfg.TMDBBaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("TMDBBaseURL = %q", cfg.TMDBBaseURL)
	}
	if cfg.TMDBTimeout != 10*time.Second {
		t.Errorf("TMDBTimeout = %s, want 10s", cfg.TMDBTimeout)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "8081")
	t.Setenv("TMDB_API_KEY", "abc123")
	t.Setenv("TMDB_TIMEOUT", "3s")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "8081" {
		t.Errorf("ServerPort = %q, want 8081", cfg.ServerPort)
	}
	if cfg.TMDBAPIKey != "abc123" {
		t.Errorf("TMDBAPIKey = %q, want abc123", cfg.TMDBAPIKey)
	}
	if cfg.TMDBTimeout != 3*time.Second {
		t.Errorf("TMDBTimeout = %s, want 3s", cfg.TMDBTimeout)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
}

func TestLoadLegacyAliases(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("SECRET_KEY", "legacy-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TMDBAPIKey != "legacy-key" {
		t.Errorf("TMDBAPIKey = %q, want legacy-key", cfg.TMDBAPIKey)
	}
	if cfg.SessionSecret != "legacy-secret" {
		t.Errorf("SessionSecret = %q, want legacy-secret", cfg.SessionSecret)
	}

	t.Setenv("SESSION_SECRET", "canonical")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SessionSecret != "canonical" {
		t.Errorf("SessionSecret = %q, want canonical to win over alias", cfg.SessionSecret)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"9000\"\ntmdb_base_url: http://catalog.local\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q, want 9000", cfg.ServerPort)
	}
	if cfg.TMDBBaseURL != "http://catalog.local" {
		t.Errorf("TMDBBaseURL = %q", cfg.TMDBBaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"missing database", func(c *Config) { c.DatabaseURL = "" }, true},
		{"missing secret", func(c *Config) { c.SessionSecret = "" }, true},
		{"missing port", func(c *Config) { c.ServerPort = "" }, true},
		{"zero timeout", func(c *Config) { c.TMDBTimeout = 0 }, true},
		{"missing api key is allowed", func(c *Config) { c.TMDBAPIKey = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
