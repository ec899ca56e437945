package internal

import "log/slog"

// Option is a functional option for configuring the long-running entry
// points (RunSync, RunMCP).
type Option func(*application)

type application struct {
	config *Config
	logger *slog.Logger
}

// WithConfig sets the application configuration. Required.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger overrides the structured logger. When omitted the entry
// points build the default JSON logger from the configuration.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}
