package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"krkn/internal/app"
	"krkn/internal/verdict"
)

// runConfigPath is the chaos run configuration file.
var runConfigPath string

// runDebug enables verbose logging across the application.
var runDebug bool

// runCmd defines the run command, the main command of krkn: it executes the
// chaos campaign declared in the configuration file and exits with the
// campaign verdict.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the chaos campaign described by the configuration file",
	Long: `Runs the declared chaos scenarios against the target cluster and exits with
the campaign verdict:

  0  every scenario ran and recovered, all health signals stayed green
  1  at least one scenario failed
  2  a critical alert fired during the run
  3  a health check reported the cluster or an application unhealthy
  4  the configuration is invalid or the cluster is unreachable

With publish_kraken_status enabled in the configuration, the campaign can be
paused, resumed and stopped while it runs; see 'krkn signal'.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	application, err := app.NewApplication(app.NewConfig(runDebug, runConfigPath))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	code, err := application.Run(ctx)
	if err != nil {
		return err
	}
	if code != verdict.ExitSuccess {
		return &exitCodeError{code: code}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "config/config.yaml", "Path of the chaos run configuration file")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "Enable debug logging")
}
