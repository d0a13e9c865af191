package app

import (
	"context"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/client"

	"krkn/internal/alerts"
	"krkn/internal/cerberus"
	"krkn/internal/config"
	"krkn/internal/health"
	"krkn/internal/runner"
	"krkn/internal/scenario"
	"krkn/internal/signal"
	"krkn/internal/verdict"
	"krkn/pkg/logging"
)

// serverShutdownTimeout bounds how long Run waits for the signal listener to
// drain in-flight requests once the campaign has ended.
const serverShutdownTimeout = 5 * time.Second

// Run executes the chaos campaign and returns the process exit code.
//
// A non-nil error means the run aborted on a pre-flight problem (unreachable
// cluster, unbindable signal listener, a scenario type no plugin handles); the
// returned code is then meaningless. Once scenarios start, failures are folded
// into the verdict and Run returns the exit code with a nil error.
func (a *Application) Run(ctx context.Context) (int, error) {
	cfg := a.config.KrakenConfig

	entries := runner.Flatten(cfg.Kraken.ChaosScenarios)

	var k8sClient client.Client
	if len(entries) > 0 {
		var err error
		k8sClient, err = a.newClusterClient(cfg.Kraken.KubeconfigPath)
		if err != nil {
			return 0, config.NewConfigError("cannot connect to the target cluster", err)
		}
	}

	if cfg.Kraken.PublishKrakenStatus {
		server := signal.NewServer(a.signals)
		addr := fmt.Sprintf("%s:%d", cfg.Kraken.SignalAddress, cfg.Kraken.Port)
		if err := server.Start(addr); err != nil {
			return 0, config.NewConfigError("cannot publish kraken status", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	var oracle runner.HealthOracle
	if cfg.Cerberus.Enabled {
		logging.Info(subsystem, "cerberus is enabled, will check for a go signal at %s after each scenario", cfg.Cerberus.URL)
		oracle = cerberus.NewClient(cfg.Cerberus.URL)
	}

	var alertChecker runner.AlertChecker
	if cfg.PerformanceMonitoring.CheckCriticalAlerts {
		checker, err := alerts.NewChecker(
			cfg.PerformanceMonitoring.PrometheusURL,
			cfg.PerformanceMonitoring.PrometheusBearerToken)
		if err != nil {
			return 0, config.NewConfigError("cannot set up the critical alert checker", err)
		}
		alertChecker = checker
	}

	healthChecker := health.NewChecker(cfg.HealthChecks)
	healthChecker.Start(ctx)

	r := runner.New(runner.Config{
		Registry: a.registry,
		Signals:  a.signals,
		Env: scenario.Environment{
			Client:         k8sClient,
			KubeconfigPath: cfg.Kraken.KubeconfigPath,
			RunUUID:        a.runUUID,
			WaitDuration:   cfg.Tunings.WaitDuration,
		},
		Tunings: runner.Tunings{
			WaitDuration: time.Duration(cfg.Tunings.WaitDuration) * time.Second,
			Iterations:   cfg.Tunings.Iterations,
			DaemonMode:   cfg.Tunings.DaemonMode,
		},
		ExitOnFailure:       cfg.Kraken.ExitOnFailure,
		Oracle:              oracle,
		OracleExitOnFailure: cfg.Cerberus.ExitOnFailure,
		Alerts:              alertChecker,
	})

	summary, err := r.Execute(ctx, entries)
	healthChecker.Stop()
	if err != nil {
		return 0, err
	}

	records, healthFailed := healthChecker.Results()
	logHealthRecords(records)
	if healthFailed {
		summary.State.AnyHealthCheckFailed = true
	}

	verdict.Report(a.out, summary)
	return verdict.Finalize(summary.State), nil
}

// logHealthRecords prints the availability intervals the background health
// checker observed while the campaign ran.
func logHealthRecords(records []health.Record) {
	for _, rec := range records {
		if rec.Healthy {
			logging.Info(subsystem, "health check %s stayed healthy throughout the run (%s)",
				rec.URL, rec.Duration.Round(time.Second))
			continue
		}
		logging.Warn(subsystem, "health check %s was down for %s starting %s (status %d)",
			rec.URL, rec.Duration.Round(time.Second), rec.Start.Format(time.RFC3339), rec.StatusCode)
	}
}
