package app

import (
	"krkn/internal/config"
)

// Config holds the CLI-level application settings.
type Config struct {
	// Debug enables verbose logging across the application.
	Debug bool

	// ConfigPath is the path of the run configuration file.
	ConfigPath string

	// KrakenConfig is the loaded run configuration. Populated during
	// bootstrap.
	KrakenConfig *config.Config
}

// NewConfig creates a new application configuration.
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}
