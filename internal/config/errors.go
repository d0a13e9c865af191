package config

import "fmt"

// ConfigError marks a configuration problem detected before any cluster
// interaction. The CLI maps it to a dedicated exit code, distinct from
// scenario failure, so callers can tell "bad config" from "chaos found a bug".
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError builds a ConfigError with an optional wrapped cause.
func NewConfigError(reason string, err error) *ConfigError {
	return &ConfigError{Reason: reason, Err: err}
}
