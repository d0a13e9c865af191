package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"krkn/internal/config"
	"krkn/internal/verdict"
)

// rootCmd represents the base command for the krkn application.
var rootCmd = &cobra.Command{
	Use:   "krkn",
	Short: "Chaos and resiliency testing for Kubernetes clusters",
	Long: `krkn injects deliberate failures into a Kubernetes cluster and verifies
that the cluster and the applications running on it recover. Scenarios,
pacing, health checks and alert checks are declared in a YAML configuration
file; a running campaign can be steered over HTTP with RUN, PAUSE and STOP
signals.`,
	// SilenceUsage keeps run failures from being followed by a usage dump;
	// the exit code and the log output already tell the story.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI. It runs the root command and
// converts the returned error into the documented process exit code.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "krkn version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// exitCodeError carries a campaign verdict through cobra's error return so
// Execute can turn it into the matching process exit code.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("chaos run finished with exit code %d", e.code)
}

// getExitCode maps an error to the exit code contract: verdict codes pass
// through, configuration problems get their own code, anything else is the
// generic failure.
func getExitCode(err error) int {
	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return verdict.ExitConfigError
	}

	return verdict.ExitScenarioFailure
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
