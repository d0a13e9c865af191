package config

import "fmt"

// Validate checks the loaded configuration for problems that must abort the
// run before any cluster interaction. It returns a ConfigError describing the
// first problem found.
func Validate(cfg Config) error {
	if cfg.Kraken.Port < 0 || cfg.Kraken.Port > 65535 {
		return NewConfigError(fmt.Sprintf("%d is not a valid port number", cfg.Kraken.Port), nil)
	}
	if cfg.Kraken.SignalState != "RUN" && cfg.Kraken.SignalState != "PAUSE" {
		return NewConfigError(fmt.Sprintf("signal_state must be RUN or PAUSE, got %q", cfg.Kraken.SignalState), nil)
	}
	if cfg.Kraken.PublishKrakenStatus && cfg.Kraken.SignalAddress == "" {
		return NewConfigError("signal_address must be set when publish_kraken_status is enabled", nil)
	}
	if cfg.Tunings.WaitDuration < 0 {
		return NewConfigError("wait_duration cannot be negative", nil)
	}
	if !cfg.Tunings.DaemonMode && cfg.Tunings.Iterations < 1 {
		return NewConfigError("iterations must be at least 1 unless daemon_mode is enabled", nil)
	}
	if cfg.Cerberus.Enabled && cfg.Cerberus.URL == "" {
		return NewConfigError("cerberus_url is required when cerberus is enabled", nil)
	}
	if (cfg.PerformanceMonitoring.EnableAlerts || cfg.PerformanceMonitoring.CheckCriticalAlerts) &&
		cfg.PerformanceMonitoring.PrometheusURL == "" {
		return NewConfigError("prometheus_url is required when alert checks are enabled", nil)
	}

	for _, group := range cfg.Kraken.ChaosScenarios {
		if group.Type == "" {
			return NewConfigError("chaos_scenarios entries must declare a scenario type", nil)
		}
	}

	for i, target := range cfg.HealthChecks.Config {
		if target.URL == "" {
			return NewConfigError(fmt.Sprintf("health_checks.config[%d] is missing a url", i), nil)
		}
	}
	return nil
}
