// Package verdict collapses the independent failure sources of a chaos run
// into the single process exit code, and renders the human-readable run
// summary.
//
// Keeping the collapse in one place makes the precedence policy (critical
// alert over scenario failure over health failure) independently testable and
// impossible to contradict elsewhere in the codebase.
package verdict
