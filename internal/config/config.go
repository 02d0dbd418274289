// Package config loads the relay configuration from environment variables,
// with an optional YAML file as the base layer.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the sink settings. An empty field means the corresponding
// sink is disabled, never an error.
type Config struct {
	WebhookURL    string `yaml:"webhook_url"`
	SpreadsheetID string `yaml:"spreadsheet_id"`
	SheetName     string `yaml:"sheet_name"`
}

// Load reads configuration from environment variables only.
func Load() Config {
	var cfg Config
	cfg.applyEnvVars()

	return cfg
}

// LoadFromFile reads a YAML file as the base layer, then overrides with
// environment variables.
func LoadFromFile(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("os.ReadFile failed: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("yaml.Unmarshal failed: %w", err)
	}

	cfg.applyEnvVars()

	return cfg, nil
}

// NotificationCapable reports whether the chat webhook sink is configured.
func (c Config) NotificationCapable() bool {
	return c.WebhookURL != ""
}

// LedgerCapable reports whether the spreadsheet sink is configured.
func (c Config) LedgerCapable() bool {
	return c.SpreadsheetID != "" && c.SheetName != ""
}

func (c *Config) applyEnvVars() {
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		c.SpreadsheetID = v
	}
	if v := os.Getenv("SHEET_NAME"); v != "" {
		c.SheetName = v
	}
}
