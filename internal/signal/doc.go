// Package signal implements the control channel of a chaos campaign: a
// shared RUN/PAUSE/STOP state and the HTTP listener through which an external
// operator or CI system steers a long-running or daemon-mode run without
// killing the process.
//
// The listener only records intent. Pausing and stopping happen in the
// execution loop, which polls the state at well-defined checkpoints; a STOP
// received mid-scenario is honored after the in-flight scenario completes.
//
// Wire contract (preserved for compatibility with existing operator tooling):
//
//	POST /RUN    resume or continue the run
//	POST /PAUSE  suspend before the next scenario
//	POST /STOP   end the run at the next checkpoint
//	GET  /       current signal as plain text
package signal
