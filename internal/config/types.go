package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure for krkn.
type Config struct {
	Kraken                KrakenConfig                `yaml:"kraken"`
	Tunings               TuningsConfig               `yaml:"tunings"`
	Cerberus              CerberusConfig              `yaml:"cerberus"`
	PerformanceMonitoring PerformanceMonitoringConfig `yaml:"performance_monitoring"`
	HealthChecks          HealthChecksConfig          `yaml:"health_checks"`
}

// KrakenConfig holds the core run settings: cluster access, the ordered chaos
// scenario list and the signal-listener surface.
type KrakenConfig struct {
	KubeconfigPath      string          `yaml:"kubeconfig_path,omitempty"`
	ExitOnFailure       bool            `yaml:"exit_on_failure,omitempty"`       // fail-fast on scenario failure
	PublishKrakenStatus bool            `yaml:"publish_kraken_status,omitempty"` // expose the signal listener
	SignalState         string          `yaml:"signal_state,omitempty"`          // initial signal (RUN or PAUSE); PAUSE only takes effect with the listener enabled
	SignalAddress       string          `yaml:"signal_address,omitempty"`        // address the listener binds to
	Port                int             `yaml:"port,omitempty"`                  // port the listener binds to
	ChaosScenarios      []ScenarioGroup `yaml:"chaos_scenarios,omitempty"`
}

// ScenarioGroup is one entry of the chaos_scenarios list: a scenario type and
// the scenario config files to run for it, in declared order.
//
// The YAML shape is a single-key mapping, kept bit-compatible with existing
// config files. Each file entry is either a plain path or a two-element list
// of scenario file and post-action file:
//
//	chaos_scenarios:
//	  - pod_disruption_scenarios:
//	      - scenarios/pod.yaml
//	      - [scenarios/pod-b.yaml, scenarios/pod-b-post.yaml]
//	  - node_scenarios:
//	      - scenarios/node.yaml
type ScenarioGroup struct {
	Type        string
	ConfigFiles []ScenarioRef
}

// ScenarioRef points at one scenario config file, with an optional post-action
// file executed by the owning plugin after the chaos completes.
type ScenarioRef struct {
	File       string
	PostAction string
}

// UnmarshalYAML accepts the scalar and the [file, post_action] list forms.
func (r *ScenarioRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&r.File)
	}
	var pair []string
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("scenario entries must be a file path or a [file, post_action] pair (line %d): %w", value.Line, err)
	}
	switch len(pair) {
	case 1:
		r.File = pair[0]
	case 2:
		r.File, r.PostAction = pair[0], pair[1]
	default:
		return fmt.Errorf("scenario entry lists take at most a file and a post_action file, got %d elements (line %d)", len(pair), value.Line)
	}
	return nil
}

// MarshalYAML renders the most compact form that round-trips.
func (r ScenarioRef) MarshalYAML() (interface{}, error) {
	if r.PostAction == "" {
		return r.File, nil
	}
	return []string{r.File, r.PostAction}, nil
}

// UnmarshalYAML decodes the single-key mapping form into the typed struct.
func (g *ScenarioGroup) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("chaos_scenarios entries must be single-key mappings of type to config files (line %d)", value.Line)
	}
	if err := value.Content[0].Decode(&g.Type); err != nil {
		return fmt.Errorf("invalid scenario type: %w", err)
	}
	// A bare `- pod_disruption_scenarios:` with no files is legal and skipped
	// at run time, matching the permissive handling of the config format.
	if value.Content[1].Tag == "!!null" {
		g.ConfigFiles = nil
		return nil
	}
	if err := value.Content[1].Decode(&g.ConfigFiles); err != nil {
		return fmt.Errorf("invalid config file list for scenario type %q: %w", g.Type, err)
	}
	return nil
}

// MarshalYAML renders the single-key mapping form.
func (g ScenarioGroup) MarshalYAML() (interface{}, error) {
	return map[string][]ScenarioRef{g.Type: g.ConfigFiles}, nil
}

// TuningsConfig controls iteration and pacing behavior of the run loop.
type TuningsConfig struct {
	WaitDuration int  `yaml:"wait_duration,omitempty"` // seconds to wait between scenarios
	Iterations   int  `yaml:"iterations,omitempty"`    // ignored when daemon_mode is set
	DaemonMode   bool `yaml:"daemon_mode,omitempty"`   // run until STOP is signalled
}

// CerberusConfig configures the external cluster-health oracle.
type CerberusConfig struct {
	Enabled                bool   `yaml:"cerberus_enabled,omitempty"`
	URL                    string `yaml:"cerberus_url,omitempty"`
	CheckApplicationRoutes bool   `yaml:"check_application_routes,omitempty"`
	ExitOnFailure          bool   `yaml:"exit_on_failure,omitempty"` // fail-fast on a no-go signal
}

// PerformanceMonitoringConfig configures Prometheus-backed alert checks.
type PerformanceMonitoringConfig struct {
	PrometheusURL         string `yaml:"prometheus_url,omitempty"`
	PrometheusBearerToken string `yaml:"prometheus_bearer_token,omitempty"`
	UUID                  string `yaml:"uuid,omitempty"` // adopt a caller-provided run UUID
	EnableAlerts          bool   `yaml:"enable_alerts,omitempty"`
	CheckCriticalAlerts   bool   `yaml:"check_critical_alerts,omitempty"`
}

// HealthChecksConfig configures the background application health checker that
// runs alongside the chaos campaign.
type HealthChecksConfig struct {
	Interval int                 `yaml:"interval,omitempty"` // seconds between probes, per target
	Config   []HealthCheckTarget `yaml:"config,omitempty"`
}

// HealthCheckTarget is one URL probed by the background health checker.
type HealthCheckTarget struct {
	URL           string `yaml:"url"`
	BearerToken   string `yaml:"bearer_token,omitempty"`
	Username      string `yaml:"username,omitempty"`
	Password      string `yaml:"password,omitempty"`
	ExitOnFailure bool   `yaml:"exit_on_failure,omitempty"` // downtime marks the whole run unhealthy
}
