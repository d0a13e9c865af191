package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
kraken:
  kubeconfig_path: /tmp/kubeconfig
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/kubeconfig", cfg.Kraken.KubeconfigPath)
	assert.Equal(t, DefaultSignalState, cfg.Kraken.SignalState)
	assert.Equal(t, DefaultSignalAddress, cfg.Kraken.SignalAddress)
	assert.Equal(t, DefaultPort, cfg.Kraken.Port)
	assert.Equal(t, DefaultWaitDuration, cfg.Tunings.WaitDuration)
	assert.Equal(t, DefaultIterations, cfg.Tunings.Iterations)
	assert.False(t, cfg.Tunings.DaemonMode)
}

func TestLoadConfigScenarioGroups(t *testing.T) {
	path := writeConfig(t, `
kraken:
  chaos_scenarios:
    - pod_disruption_scenarios:
        - scenarios/pod-a.yaml
        - [scenarios/pod-b.yaml, scenarios/pod-b-post.yaml]
    - node_scenarios:
        - scenarios/node.yaml
    - empty_scenarios:
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Kraken.ChaosScenarios, 3)

	assert.Equal(t, "pod_disruption_scenarios", cfg.Kraken.ChaosScenarios[0].Type)
	assert.Equal(t, []ScenarioRef{
		{File: "scenarios/pod-a.yaml"},
		{File: "scenarios/pod-b.yaml", PostAction: "scenarios/pod-b-post.yaml"},
	}, cfg.Kraken.ChaosScenarios[0].ConfigFiles)
	assert.Equal(t, "node_scenarios", cfg.Kraken.ChaosScenarios[1].Type)
	assert.Equal(t, "empty_scenarios", cfg.Kraken.ChaosScenarios[2].Type)
	assert.Empty(t, cfg.Kraken.ChaosScenarios[2].ConfigFiles)
}

func TestScenarioRefRejectsOversizedList(t *testing.T) {
	path := writeConfig(t, `
kraken:
  chaos_scenarios:
    - pod_disruption_scenarios:
        - [a.yaml, b.yaml, c.yaml]
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "kraken: [not a mapping")

	_, err := LoadConfig(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadConfigRejectsMultiKeyScenarioEntry(t *testing.T) {
	path := writeConfig(t, `
kraken:
  chaos_scenarios:
    - pod_disruption_scenarios: [a.yaml]
      node_scenarios: [b.yaml]
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigFullSurface(t *testing.T) {
	path := writeConfig(t, `
kraken:
  exit_on_failure: true
  publish_kraken_status: true
  signal_state: PAUSE
  signal_address: 127.0.0.1
  port: 9091
tunings:
  wait_duration: 5
  iterations: 3
  daemon_mode: true
cerberus:
  cerberus_enabled: true
  cerberus_url: http://cerberus:8080
  exit_on_failure: true
performance_monitoring:
  prometheus_url: http://prometheus:9090
  prometheus_bearer_token: token
  check_critical_alerts: true
health_checks:
  interval: 10
  config:
    - url: http://app.example.com/healthz
      bearer_token: abc
      exit_on_failure: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Kraken.ExitOnFailure)
	assert.True(t, cfg.Kraken.PublishKrakenStatus)
	assert.Equal(t, "PAUSE", cfg.Kraken.SignalState)
	assert.Equal(t, 9091, cfg.Kraken.Port)
	assert.Equal(t, 5, cfg.Tunings.WaitDuration)
	assert.True(t, cfg.Tunings.DaemonMode)
	assert.True(t, cfg.Cerberus.Enabled)
	assert.Equal(t, "http://cerberus:8080", cfg.Cerberus.URL)
	assert.True(t, cfg.PerformanceMonitoring.CheckCriticalAlerts)
	assert.Equal(t, 10, cfg.HealthChecks.Interval)
	require.Len(t, cfg.HealthChecks.Config, 1)
	assert.True(t, cfg.HealthChecks.Config[0].ExitOnFailure)
}
