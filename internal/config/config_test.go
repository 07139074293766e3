package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/draftwise/draft-api/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.DataDir != "data/parsed" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.ArtifactsDir != "artifacts" {
		t.Errorf("ArtifactsDir = %q", cfg.ArtifactsDir)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.GenAIModel != "gemini-2.0-flash" {
		t.Errorf("GenAIModel = %q", cfg.GenAIModel)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}

	if got, want := cfg.SmoothingConfig(), models.DefaultSmoothingConfig(); got != want {
		t.Errorf("SmoothingConfig = %+v, want %+v", got, want)
	}
	if got, want := cfg.ScoringConfig(), models.DefaultScoringConfig(); got != want {
		t.Errorf("ScoringConfig = %+v, want %+v", got, want)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("DATA_DIR", "/srv/matches")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("SMOOTHING_MIN_SAMPLES", "10")
	t.Setenv("SCORING_SYNERGY_WEIGHT", "0.8")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %q, want production", cfg.Env)
	}
	if cfg.DataDir != "/srv/matches" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", cfg.CacheTTL)
	}
	if cfg.Smoothing.MinSamples != 10 {
		t.Errorf("MinSamples = %d, want 10", cfg.Smoothing.MinSamples)
	}
	if cfg.Scoring.SynergyWeight != 0.8 {
		t.Errorf("SynergyWeight = %v, want 0.8", cfg.Scoring.SynergyWeight)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != want[0] || cfg.AllowedOrigins[1] != want[1] {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
port: 7000
env: staging
artifacts_dir: /var/lib/draft/artifacts
smoothing:
  role_alpha: 3
  role_beta: 3
  pair_alpha: 10
  pair_beta: 10
  min_samples: 8
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	// Environment still wins over the file.
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 7000 {
		t.Errorf("Port = %d, want 7000 from file", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %q, want env var to win over file", cfg.Env)
	}
	if cfg.ArtifactsDir != "/var/lib/draft/artifacts" {
		t.Errorf("ArtifactsDir = %q", cfg.ArtifactsDir)
	}
	if cfg.Smoothing.RoleAlpha != 3 || cfg.Smoothing.MinSamples != 8 {
		t.Errorf("Smoothing = %+v, want file values", cfg.Smoothing)
	}
}

func TestLoadRejectsInvalidModelConfig(t *testing.T) {
	t.Setenv("SMOOTHING_ROLE_ALPHA", "-1")
	if _, err := Load(); err == nil {
		t.Error("negative prior accepted")
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Error("missing config file accepted")
	}
}
