package runner

import (
	"context"
	"fmt"
	"time"

	"krkn/internal/config"
	"krkn/internal/scenario"
	"krkn/internal/signal"
	"krkn/pkg/logging"
)

const subsystem = "Runner"

// defaultPollInterval bounds the sleep-and-recheck loop while paused and the
// granularity at which long waits notice a STOP signal.
const defaultPollInterval = time.Second

// Config assembles the collaborators and policy knobs of a Runner.
type Config struct {
	Registry *scenario.Registry
	// Signals is the shared signal state. Pass a state pinned to RUN when the
	// listener is disabled; the loop then never pauses or stops on its own.
	Signals *signal.State
	Env     scenario.Environment
	Tunings Tunings

	// ExitOnFailure aborts the remaining campaign on the first scenario
	// failure instead of accumulating and continuing.
	ExitOnFailure bool

	// Oracle, when non-nil, is consulted after every scenario.
	// OracleExitOnFailure gives the oracle its own fail-fast policy,
	// independent of ExitOnFailure.
	Oracle              HealthOracle
	OracleExitOnFailure bool

	// Alerts, when non-nil, is asked after every scenario whether critical
	// alerts fired during the run window. Any firing critical alert aborts
	// the campaign.
	Alerts AlertChecker

	// PollInterval overrides the pause/stop recheck interval. Zero means the
	// default of one second.
	PollInterval time.Duration
}

// Runner drives a chaos campaign to completion: it sequences the declared
// scenarios over the configured iterations, honors operator signals at
// checkpoints, applies wait windows between scenarios and accumulates the
// campaign's failure state.
type Runner struct {
	cfg          Config
	pollInterval time.Duration
}

// New creates a Runner from the given configuration.
func New(cfg Config) *Runner {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Runner{cfg: cfg, pollInterval: interval}
}

// Execute runs the campaign over the given entries and returns its summary.
//
// A non-nil error is only returned for configuration problems detected before
// any scenario is dispatched (an entry whose type has no registered plugin).
// Scenario failures, oracle no-gos and critical alerts are data: they are
// folded into the summary's RunState, never into the error return.
func (r *Runner) Execute(ctx context.Context, entries []scenario.Entry) (RunSummary, error) {
	summary := RunSummary{
		RunUUID:   r.cfg.Env.RunUUID,
		StartTime: time.Now(),
		State:     RunState{DaemonMode: r.cfg.Tunings.DaemonMode},
	}

	// Resolve every declared type up front so a typo in the config can never
	// abort a half-injected campaign.
	for _, entry := range entries {
		if _, err := r.cfg.Registry.Resolve(entry.Type); err != nil {
			return summary, config.NewConfigError(
				fmt.Sprintf("cannot run scenario %q", entry.ConfigFile), err)
		}
	}

	if len(entries) == 0 {
		logging.Warn(subsystem, "no chaos scenarios configured, nothing to run")
		summary.EndTime = time.Now()
		return summary, nil
	}

	if r.cfg.Tunings.DaemonMode {
		logging.Info(subsystem, "daemon mode enabled, will cause chaos until a STOP signal; ignoring the iterations set")
	} else {
		logging.Info(subsystem, "daemon mode not enabled, will run through %d iterations", r.cfg.Tunings.Iterations)
	}

	r.loop(ctx, entries, &summary)

	summary.EndTime = time.Now()
	return summary, nil
}

// loop is the iteration engine. It returns when the iteration budget is
// exhausted, a STOP signal is honored, a fail-fast policy triggers or the
// context is cancelled.
func (r *Runner) loop(ctx context.Context, entries []scenario.Entry, summary *RunSummary) {
	for iteration := 0; r.cfg.Tunings.DaemonMode || iteration < r.cfg.Tunings.Iterations; iteration++ {
		logging.Info(subsystem, "executing scenarios for iteration %d", iteration)

		for i, entry := range entries {
			if !r.checkpoint(ctx, summary) {
				return
			}

			outcome := r.dispatch(ctx, entry, iteration)
			summary.Outcomes = append(summary.Outcomes, outcome)
			if outcome.Status == StatusFailure || outcome.Status == StatusError {
				summary.State.AnyScenarioFailed = true
				if r.cfg.ExitOnFailure {
					logging.Error(subsystem, nil, "scenario %s failed and exit_on_failure is set, aborting the campaign", entry.ConfigFile)
					r.markNotAttempted(entries[i+1:], iteration, summary)
					return
				}
			}

			if abort := r.postScenarioChecks(ctx, entry, summary); abort {
				r.markNotAttempted(entries[i+1:], iteration, summary)
				return
			}

			last := iteration == r.cfg.Tunings.Iterations-1 && i == len(entries)-1
			if r.cfg.Tunings.DaemonMode || !last {
				logging.Info(subsystem, "waiting %s before the next scenario", r.cfg.Tunings.WaitDuration)
				if !r.wait(ctx, r.cfg.Tunings.WaitDuration) {
					return
				}
			}
		}

		summary.State.IterationsRun++
	}
}

// checkpoint consults the signal state before a scenario starts. It blocks
// while the signal is PAUSE and reports false when the run must end (STOP or
// context cancellation).
func (r *Runner) checkpoint(ctx context.Context, summary *RunSummary) bool {
	for r.cfg.Signals.Get() == signal.Pause {
		logging.Info(subsystem, "pausing the run, re-polling the signal in %s", r.pollInterval)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(r.pollInterval):
		}
	}
	if r.cfg.Signals.Get() == signal.Stop {
		logging.Info(subsystem, "received STOP signal, ending the run")
		summary.State.Stopped = true
		return false
	}
	return ctx.Err() == nil
}

// dispatch invokes the plugin for one entry, converting a panic into an Error
// outcome so a misbehaving plugin can never crash the campaign.
func (r *Runner) dispatch(ctx context.Context, entry scenario.Entry, iteration int) (outcome Outcome) {
	outcome = Outcome{Entry: entry, Iteration: iteration}
	start := time.Now()
	defer func() {
		outcome.Duration = time.Since(start)
		if rec := recover(); rec != nil {
			outcome.Status = StatusError
			outcome.Detail = fmt.Sprintf("plugin panicked: %v", rec)
			logging.Error(subsystem, nil, "uncaught panic in scenario plugin for %s: %v", entry.Type, rec)
		}
	}()

	plugin, err := r.cfg.Registry.Resolve(entry.Type)
	if err != nil {
		// Cannot happen after the up-front resolution pass, but a registry
		// miss here must still become data rather than a crash.
		outcome.Status = StatusError
		outcome.Detail = err.Error()
		return outcome
	}

	logging.Info(subsystem, "running %s -> %s", entry.Type, entry.ConfigFile)
	if err := plugin.Run(ctx, entry, r.cfg.Env); err != nil {
		outcome.Status = StatusFailure
		outcome.Detail = err.Error()
		logging.Error(subsystem, err, "scenario %s failed", entry.ConfigFile)
	} else {
		outcome.Status = StatusSuccess
	}
	return outcome
}

// postScenarioChecks consults the health oracle and the alert checker after a
// scenario. It reports true when the campaign must abort.
func (r *Runner) postScenarioChecks(ctx context.Context, entry scenario.Entry, summary *RunSummary) bool {
	if r.cfg.Oracle != nil {
		verdict := r.cfg.Oracle.Check(ctx)
		if !verdict.Healthy {
			summary.State.AnyHealthCheckFailed = true
			logging.Error(subsystem, nil, "health oracle reported a no-go after %s: %s", entry.ConfigFile, verdict.Reason)
			if r.cfg.OracleExitOnFailure {
				return true
			}
		}
	}

	if r.cfg.Alerts != nil {
		alerts, err := r.cfg.Alerts.CriticalAlerts(ctx, summary.StartTime, time.Now())
		if err != nil {
			logging.Warn(subsystem, "critical alert check failed, continuing: %v", err)
		} else if len(alerts) > 0 {
			summary.State.CriticalAlertFired = true
			logging.Error(subsystem, nil, "post chaos critical alerts firing (%v), aborting the campaign", alerts)
			return true
		}
	}
	return false
}

// wait sleeps the inter-scenario window in poll-interval slices so a STOP
// signal or context cancellation ends the wait early. It reports false when
// the run must end.
func (r *Runner) wait(ctx context.Context, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		if r.cfg.Signals.Get() == signal.Stop {
			// Honored at the next checkpoint; no point sleeping out the window.
			return true
		}
		slice := r.pollInterval
		if remaining < slice {
			slice = remaining
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(slice):
		}
	}
}

// markNotAttempted records the remaining entries of an aborted iteration so
// the summary shows what fail-fast skipped.
func (r *Runner) markNotAttempted(remaining []scenario.Entry, iteration int, summary *RunSummary) {
	for _, entry := range remaining {
		summary.Outcomes = append(summary.Outcomes, Outcome{
			Entry:     entry,
			Iteration: iteration,
			Status:    StatusNotAttempted,
		})
	}
}

// Flatten expands the config's scenario groups into the ordered entry list
// the Runner executes.
func Flatten(groups []config.ScenarioGroup) []scenario.Entry {
	var entries []scenario.Entry
	for _, group := range groups {
		for _, ref := range group.ConfigFiles {
			entries = append(entries, scenario.Entry{
				Type:       group.Type,
				ConfigFile: ref.File,
				PostAction: ref.PostAction,
			})
		}
	}
	return entries
}
