package app

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"krkn/internal/cluster"
	"krkn/internal/config"
	"krkn/internal/scenario"
	"krkn/internal/scenario/node"
	"krkn/internal/scenario/pod"
	"krkn/internal/signal"
	"krkn/pkg/logging"
)

const subsystem = "Bootstrap"

// Application bootstraps and runs one chaos campaign. It follows a two-phase
// pattern: NewApplication loads and validates everything that can fail before
// the cluster is touched, Run then drives the campaign to its exit code.
type Application struct {
	config   *Config
	runUUID  string
	signals  *signal.State
	registry *scenario.Registry

	// Seams for tests; production code keeps the defaults set in
	// NewApplication.
	newClusterClient func(kubeconfigPath string) (client.Client, error)
	out              io.Writer
}

// NewApplication creates and initializes an application instance: it
// configures logging, loads and validates the run configuration, fixes the
// run UUID and builds the scenario plugin registry. Any error it returns is a
// pre-flight failure; nothing has been injected into the cluster yet.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	logging.Init(appLogLevel, os.Stderr)

	krakenCfg, err := config.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(krakenCfg); err != nil {
		return nil, err
	}
	cfg.KrakenConfig = &krakenCfg

	// Adopt the caller-provided UUID when set so CI pipelines can correlate
	// the run with their own artifacts; generate one otherwise.
	runUUID := krakenCfg.PerformanceMonitoring.UUID
	if runUUID == "" {
		runUUID = uuid.New().String()
	}
	logging.Info(subsystem, "starting kraken, run UUID: %s", runUUID)

	initial, err := signal.ParseSignal(krakenCfg.Kraken.SignalState)
	if err != nil {
		return nil, config.NewConfigError("invalid signal_state", err)
	}
	// Without the listener nothing could ever resume a paused campaign, so
	// the signal is pinned to RUN.
	if !krakenCfg.Kraken.PublishKrakenStatus && initial != signal.Run {
		logging.Warn(subsystem, "ignoring signal_state %s: publish_kraken_status is disabled, the run starts immediately", initial)
		initial = signal.Run
	}

	registry := scenario.NewRegistry()
	for _, plugin := range []scenario.Plugin{pod.New(), node.New()} {
		if err := registry.Register(plugin); err != nil {
			return nil, fmt.Errorf("failed to register scenario plugin: %w", err)
		}
	}
	logging.Debug(subsystem, "registered scenario types: %v", registry.Types())

	return &Application{
		config:           cfg,
		runUUID:          runUUID,
		signals:          signal.NewState(initial),
		registry:         registry,
		newClusterClient: cluster.NewClient,
		out:              os.Stdout,
	}, nil
}
