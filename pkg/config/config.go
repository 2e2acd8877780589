package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	RulesFile       string           `json:"rules_file,omitempty"`
	OutputDir       string           `json:"output_dir"`
	AnthropicAPIKey string           `json:"anthropic_api_key,omitempty"`
	Model           string           `json:"model,omitempty"`
	Workers         int              `json:"workers,omitempty"`
	Enrichment      EnrichmentConfig `json:"enrichment"`
}

// EnrichmentConfig controls the optional guidance call-out.
type EnrichmentConfig struct {
	Enabled        bool `json:"enabled"`
	TimeoutSeconds int  `json:"timeout_seconds,omitempty"`
}

// Default returns the configuration used when no config file exists.
// Enrichment stays off until explicitly enabled.
func Default() (cfg Config) {
	cfg = Config{
		OutputDir: "./output",
		Workers:   4,
		Enrichment: EnrichmentConfig{
			Enabled:        false,
			TimeoutSeconds: 10,
		},
	}

	return cfg
}

// EnrichTimeout returns the per-call enrichment timeout.
func (c *Config) EnrichTimeout() (timeout time.Duration) {
	seconds := c.Enrichment.TimeoutSeconds
	if seconds <= 0 {
		seconds = 10
	}
	timeout = time.Duration(seconds) * time.Second

	return timeout
}

// Load reads configuration from file with environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return cfg, err
		}
		path = filepath.Join(homeDir, ".adgm-review", "config.json")
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Wrapf(ErrNotFound, "config file not found: %s (run 'adgm-review init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	// Parse JSON
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	// Override with environment variable if set
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		cfg.AnthropicAPIKey = apiKey
	}

	// Validate required fields
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// ErrNotFound marks a missing config file; callers may fall back to
// Default() for a fully offline run.
var ErrNotFound = errors.New("config file not found")

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() (err error) {
	if c.OutputDir == "" {
		c.OutputDir = "./output"
	}

	if c.Workers <= 0 {
		c.Workers = 4
	}

	if c.Enrichment.TimeoutSeconds < 0 {
		err = errors.New("enrichment timeout_seconds cannot be negative")
		return err
	}

	if c.Enrichment.Enabled && c.AnthropicAPIKey == "" {
		err = errors.New("anthropic_api_key is required when enrichment is enabled (set in config or ANTHROPIC_API_KEY env var)")
		return err
	}

	if c.RulesFile != "" {
		_, err = os.Stat(c.RulesFile)
		if os.IsNotExist(err) {
			err = errors.Errorf("rules file not found: %s", c.RulesFile)
			return err
		}
		err = nil
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return err
		}
		path = filepath.Join(homeDir, ".adgm-review", "config.json")
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Default()

	// Write to file
	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
