// Package runner contains the execution controller: the loop that drives a
// chaos campaign across iterations and scenarios while staying steerable from
// the outside.
//
// The loop consults the shared signal state at checkpoints before every
// scenario: PAUSE blocks it with a bounded sleep-and-recheck, STOP ends the
// run as a controlled early termination. A signal arriving mid-scenario is
// honored at the next checkpoint; there is no forced cancellation of in-flight
// plugin work, so a hanging plugin hangs the campaign. That is a documented
// limitation of the design, not something the loop papers over.
//
// Scenario failures never crash the loop. Plugin errors become Failure
// outcomes, plugin panics become Error outcomes, and both feed the accumulated
// RunState that the verdict package later collapses into the exit code. The
// only fatal path is a configuration error: a scenario type with no registered
// plugin aborts the run before any scenario is dispatched.
package runner
