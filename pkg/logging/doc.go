// Package logging provides a thin wrapper around log/slog with a
// subsystem-tagged, printf-style API used across the whole application.
//
// Call Init once at startup, then log through the level helpers:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//	logging.Info("Runner", "executing scenarios for iteration %d", i)
//	logging.Error("SignalServer", err, "failed to bind %s", addr)
//
// The subsystem string identifies the component emitting the entry and is
// attached as a structured attribute, which keeps grep-ability without
// requiring every package to carry its own logger instance.
package logging
