// Package internal provides configuration and wiring for the client
// application: transport construction, per-feature repositories, and
// the long-running sync and MCP modes.
package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the client configuration.
type Config struct {
	App  ApplicationConfig `yaml:"app"`
	API  APIConfig         `yaml:"api"`
	Sync SyncConfig        `yaml:"sync"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	return c.Sync.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// APIConfig holds the backend connection settings. Token may be empty;
// requests are then sent unauthenticated, there is no client-side gate.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the transport timeout. Timeouts live at the
// transport layer only and surface as network failures.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the API configuration.
func (c *APIConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1), validation.Max(600)),
	); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

// SyncConfig holds local sync settings: the SQLite ledger used by the
// push syncer to remember which files it already indexed.
type SyncConfig struct {
	LedgerPath string `yaml:"ledger_path"`
}

// Validate validates the sync configuration.
func (c *SyncConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LedgerPath, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		API: APIConfig{
			BaseURL:        "http://localhost:24801",
			TimeoutSeconds: 30,
		},
		Sync: SyncConfig{
			LedgerPath: "./ansuz-sync.db",
		},
	}
}
