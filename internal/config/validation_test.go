package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	cfg := GetDefaultConfig()
	cfg.Kraken.ChaosScenarios = []ScenarioGroup{
		{Type: "pod_disruption_scenarios", ConfigFiles: []ScenarioRef{{File: "pod.yaml"}}},
	}
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Kraken.Port = 70000 }},
		{"negative port", func(c *Config) { c.Kraken.Port = -1 }},
		{"bad signal state", func(c *Config) { c.Kraken.SignalState = "HALT" }},
		{"stop as initial state", func(c *Config) { c.Kraken.SignalState = "STOP" }},
		{"missing signal address", func(c *Config) {
			c.Kraken.PublishKrakenStatus = true
			c.Kraken.SignalAddress = ""
		}},
		{"negative wait duration", func(c *Config) { c.Tunings.WaitDuration = -1 }},
		{"zero iterations without daemon mode", func(c *Config) { c.Tunings.Iterations = 0 }},
		{"cerberus without url", func(c *Config) { c.Cerberus.Enabled = true }},
		{"critical alerts without prometheus", func(c *Config) {
			c.PerformanceMonitoring.CheckCriticalAlerts = true
		}},
		{"scenario group without type", func(c *Config) {
			c.Kraken.ChaosScenarios = append(c.Kraken.ChaosScenarios, ScenarioGroup{})
		}},
		{"health check target without url", func(c *Config) {
			c.HealthChecks.Config = []HealthCheckTarget{{BearerToken: "x"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			assert.Error(t, err)

			var cfgErr *ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestValidateDaemonModeIgnoresIterations(t *testing.T) {
	cfg := validConfig()
	cfg.Tunings.DaemonMode = true
	cfg.Tunings.Iterations = 0
	assert.NoError(t, Validate(cfg))
}
