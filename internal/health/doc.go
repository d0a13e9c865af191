// Package health runs background availability probes against application
// endpoints while chaos is being injected, so a run can answer not only "did
// the cluster recover" but "did my application stay reachable throughout".
//
// Each configured target is probed on its own goroutine at the configured
// interval; consecutive failures are folded into downtime windows with start,
// end and duration. A target marked exit_on_failure that experiences any
// downtime marks the whole run's health as failed.
package health
