package runner

import (
	"context"
	"time"

	"krkn/internal/scenario"
)

// Status classifies the result of one scenario dispatch.
type Status int

const (
	// StatusSuccess means the plugin ran the scenario and reported recovery.
	StatusSuccess Status = iota
	// StatusFailure means the plugin reported the scenario failed.
	StatusFailure
	// StatusError means the plugin panicked; the panic was contained at the
	// dispatch boundary and converted into this outcome.
	StatusError
	// StatusNotAttempted marks scenarios skipped because an earlier failure
	// aborted the campaign under fail-fast policy.
	StatusNotAttempted
)

// String makes Status satisfy fmt.Stringer for reports and logs.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	case StatusError:
		return "Error"
	case StatusNotAttempted:
		return "NotAttempted"
	default:
		return "Unknown"
	}
}

// Outcome records one scenario dispatch: what ran, in which iteration, how it
// ended and how long it took.
type Outcome struct {
	Entry     scenario.Entry
	Iteration int
	Status    Status
	Duration  time.Duration
	Detail    string
}

// RunState is the accumulated failure state of the whole campaign. The
// execution loop is its only writer; the verdict aggregator collapses it into
// the process exit code once the run ends.
type RunState struct {
	IterationsRun        int
	DaemonMode           bool
	AnyScenarioFailed    bool
	AnyHealthCheckFailed bool
	CriticalAlertFired   bool
	// Stopped records that the run ended through an operator STOP signal,
	// which is a controlled early termination, not a failure.
	Stopped bool
}

// RunSummary is everything the run produced: per-scenario outcomes plus the
// final RunState, bracketed by wall-clock timestamps.
type RunSummary struct {
	RunUUID   string
	StartTime time.Time
	EndTime   time.Time
	Outcomes  []Outcome
	State     RunState
}

// Tunings controls pacing and iteration behavior of the execution loop.
type Tunings struct {
	// WaitDuration is slept between scenarios (and used by plugins as their
	// recovery-wait budget).
	WaitDuration time.Duration
	// Iterations is the number of passes over the scenario list. Ignored in
	// daemon mode.
	Iterations int
	// DaemonMode runs passes until STOP is signalled.
	DaemonMode bool
}

// HealthVerdict is the go/no-go answer from the cluster-health oracle.
type HealthVerdict struct {
	Healthy bool
	Reason  string
}

// HealthOracle is the optional external cluster-health collaborator queried
// after every scenario.
type HealthOracle interface {
	Check(ctx context.Context) HealthVerdict
}

// AlertChecker is the optional alerting collaborator asked, after every
// scenario, whether any critical alert fired inside the run window.
type AlertChecker interface {
	CriticalAlerts(ctx context.Context, from, to time.Time) ([]string, error)
}
