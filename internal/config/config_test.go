package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pharmaflow/be-procurement/internal/errors"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
negotiation:
  max_rounds: 5
  price_tolerance: 0.10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Negotiation.MaxRounds != 5 {
		t.Errorf("Negotiation.MaxRounds = %d, want 5", cfg.Negotiation.MaxRounds)
	}
	// Untouched sections keep defaults.
	if cfg.Scoring.Default.Price != 0.40 {
		t.Errorf("Scoring.Default.Price = %g, want 0.40", cfg.Scoring.Default.Price)
	}
}

func TestValidate_RejectsMalformedWeights(t *testing.T) {
	cfg := Default()
	cfg.Scoring.Budget = WeightsConfig{Price: 0.60, Speed: 0.15, Reliability: 0.15, Stock: 0.15}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for weights summing to 1.05")
	}
	if errors.CodeOf(err) != errors.ErrCodeInvalidConfiguration {
		t.Errorf("code = %v, want INVALID_CONFIGURATION", errors.CodeOf(err))
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("NATS_URL", "nats://queue:4222")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.NATS.URL != "nats://queue:4222" {
		t.Errorf("NATS.URL = %q", cfg.NATS.URL)
	}
}
