package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"krkn/pkg/logging"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads the run configuration from the given YAML file. Defaults
// are applied first, then overridden by whatever the file sets. A missing or
// malformed file is a ConfigError; there is no implicit fallback config
// because running chaos against a cluster with a guessed configuration is
// never the right call.
func LoadConfig(path string) (Config, error) {
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, NewConfigError(fmt.Sprintf("cannot read config at %s", path), err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, NewConfigError(fmt.Sprintf("cannot parse config at %s", path), err)
	}

	cfg.Kraken.KubeconfigPath = expandHome(cfg.Kraken.KubeconfigPath)

	logging.Info("ConfigLoader", "loaded configuration from %s", path)
	return cfg, nil
}

// expandHome resolves a leading ~/ against the current user's home directory.
// Kubeconfig paths in shipped config files conventionally use ~/.kube/config.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
