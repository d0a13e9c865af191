// Package config defines the krkn configuration file format and its loading,
// defaulting and validation rules.
//
// The file is a single YAML document with five sections: kraken (cluster
// access, the chaos scenario list and the signal listener), tunings (iteration
// and pacing), cerberus (the external health oracle), performance_monitoring
// (Prometheus alert checks) and health_checks (background URL probes).
//
// The configuration is read once at process start and never mutated; the
// scenario list order in the file is the execution order.
package config
