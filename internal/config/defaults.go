package config

// Default values applied before unmarshalling a config file, so absent keys
// keep the documented behavior of existing config files.
const (
	DefaultSignalState   = "RUN"
	DefaultSignalAddress = "0.0.0.0"
	DefaultPort          = 8081

	DefaultWaitDuration = 60
	DefaultIterations   = 1

	DefaultHealthCheckInterval = 2
)

// GetDefaultConfig returns the default configuration for krkn.
func GetDefaultConfig() Config {
	return Config{
		Kraken: KrakenConfig{
			SignalState:   DefaultSignalState,
			SignalAddress: DefaultSignalAddress,
			Port:          DefaultPort,
		},
		Tunings: TuningsConfig{
			WaitDuration: DefaultWaitDuration,
			Iterations:   DefaultIterations,
		},
		HealthChecks: HealthChecksConfig{
			Interval: DefaultHealthCheckInterval,
		},
	}
}
