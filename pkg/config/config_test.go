package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func writeConfig(t *testing.T, content string) (path string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(content), 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	return path
}

func TestLoadValidConfig(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	path := writeConfig(t, `{
  "output_dir": "/tmp/reviews",
  "workers": 8,
  "enrichment": {
    "enabled": false,
    "timeout_seconds": 30
  }
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OutputDir != "/tmp/reviews" {
		t.Errorf("Expected output dir /tmp/reviews, got %s", cfg.OutputDir)
	}
	if cfg.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", cfg.Workers)
	}
	if cfg.EnrichTimeout() != 30*time.Second {
		t.Errorf("Expected 30s enrich timeout, got %s", cfg.EnrichTimeout())
	}
}

func TestLoadMissingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected error for missing config, got nil")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, "this is not json")

	_, err := Load(path)
	if err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Parse failure must not look like a missing file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	path := writeConfig(t, `{
  "output_dir": "./output",
  "anthropic_api_key": "file-key",
  "enrichment": {"enabled": true}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AnthropicAPIKey != "env-key" {
		t.Errorf("Expected env var to override file key, got %s", cfg.AnthropicAPIKey)
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{}

	err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.OutputDir != "./output" {
		t.Errorf("Expected default output dir, got %s", cfg.OutputDir)
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected default workers 4, got %d", cfg.Workers)
	}
}

func TestValidateEnrichmentRequiresAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Enrichment.Enabled = true

	err := cfg.Validate()
	if err == nil {
		t.Error("Expected error when enrichment enabled without API key, got nil")
	}

	cfg.AnthropicAPIKey = "some-key"
	err = cfg.Validate()
	if err != nil {
		t.Errorf("Expected valid config with API key, got: %v", err)
	}
}

func TestValidateNegativeTimeout(t *testing.T) {
	cfg := Default()
	cfg.Enrichment.TimeoutSeconds = -5

	err := cfg.Validate()
	if err == nil {
		t.Error("Expected error for negative timeout, got nil")
	}
}

func TestValidateMissingRulesFile(t *testing.T) {
	cfg := Default()
	cfg.RulesFile = filepath.Join(t.TempDir(), "nonexistent.yaml")

	err := cfg.Validate()
	if err == nil {
		t.Error("Expected error for missing rules file, got nil")
	}
}

func TestValidateExistingRulesFile(t *testing.T) {
	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	err := os.WriteFile(rulesPath, []byte("override: {}\n"), 0600)
	if err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}

	cfg := Default()
	cfg.RulesFile = rulesPath

	err = cfg.Validate()
	if err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}
}

func TestEnrichTimeoutDefault(t *testing.T) {
	cfg := Config{}

	if cfg.EnrichTimeout() != 10*time.Second {
		t.Errorf("Expected 10s default timeout, got %s", cfg.EnrichTimeout())
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}

	// Second init must refuse to clobber.
	err = InitConfig(path)
	if err == nil {
		t.Error("Expected error re-initializing existing config, got nil")
	}
}
