package verdict

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"krkn/internal/runner"
	"krkn/pkg/logging"
)

const subsystem = "Verdict"

// Process exit codes. CI systems key off these, so the mapping is part of the
// external contract and must not drift.
const (
	// ExitSuccess: no scenario failures, no critical alerts, the health
	// signals stayed green throughout.
	ExitSuccess = 0
	// ExitScenarioFailure: at least one scenario reported Failure or Error.
	ExitScenarioFailure = 1
	// ExitCriticalAlert: a critical-severity alert fired during the run,
	// regardless of scenario outcomes.
	ExitCriticalAlert = 2
	// ExitHealthCheckFailure: the health oracle or a background health check
	// reported the cluster or an application unhealthy. Distinct from
	// scenario failure so operators can tell "my test broke the cluster"
	// from "the cluster was already unhealthy".
	ExitHealthCheckFailure = 3
	// ExitConfigError: the run aborted before any cluster interaction due to
	// a configuration problem.
	ExitConfigError = 4
)

// Finalize collapses the accumulated run state into the process exit code.
//
// Precedence when several conditions hold at once, checked in this order:
// critical alert, scenario failure, health-check failure. A critical alert is
// an independent signal of systemic harm that scenario-level success does not
// capture, so it wins over everything else.
func Finalize(state runner.RunState) int {
	switch {
	case state.CriticalAlertFired:
		return ExitCriticalAlert
	case state.AnyScenarioFailed:
		return ExitScenarioFailure
	case state.AnyHealthCheckFailed:
		return ExitHealthCheckFailure
	default:
		return ExitSuccess
	}
}

// Report writes the human-readable run summary: one row per scenario dispatch
// plus the overall verdict. The exit code remains the only machine-readable
// output of a run.
func Report(w io.Writer, summary runner.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("chaos run %s", summary.RunUUID)
	t.AppendHeader(table.Row{"#", "Iteration", "Scenario Type", "Config", "Status", "Duration", "Detail"})

	for i, outcome := range summary.Outcomes {
		t.AppendRow(table.Row{
			i + 1,
			outcome.Iteration,
			outcome.Entry.Type,
			outcome.Entry.ConfigFile,
			colorizeStatus(outcome.Status),
			outcome.Duration.Round(time.Millisecond),
			outcome.Detail,
		})
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "elapsed", summary.EndTime.Sub(summary.StartTime).Round(time.Second)})
	t.Render()

	fmt.Fprintf(w, "iterations completed: %d\n", summary.State.IterationsRun)
	if summary.State.Stopped {
		fmt.Fprintln(w, "run ended early on operator STOP signal")
	}

	code := Finalize(summary.State)
	switch code {
	case ExitSuccess:
		logging.Info(subsystem, "successfully finished the chaos run, UUID: %s", summary.RunUUID)
	case ExitScenarioFailure:
		logging.Error(subsystem, nil, "one or more chaos scenarios failed, UUID: %s", summary.RunUUID)
	case ExitCriticalAlert:
		logging.Error(subsystem, nil, "critical alerts fired during the run, please check, UUID: %s", summary.RunUUID)
	case ExitHealthCheckFailure:
		logging.Error(subsystem, nil, "health checks failed during the run, please check, UUID: %s", summary.RunUUID)
	}
}

func colorizeStatus(s runner.Status) string {
	switch s {
	case runner.StatusSuccess:
		return text.FgGreen.Sprint(s)
	case runner.StatusFailure, runner.StatusError:
		return text.FgRed.Sprint(s)
	case runner.StatusNotAttempted:
		return text.FgYellow.Sprint(s)
	default:
		return s.String()
	}
}
