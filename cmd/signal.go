package cmd

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"krkn/internal/signal"
)

// signalAddress is the listener address of the running campaign.
var signalAddress string

// signalCmd steers a campaign that was started with publish_kraken_status
// enabled by posting to its signal listener.
var signalCmd = &cobra.Command{
	Use:   "signal [RUN|PAUSE|STOP]",
	Short: "Steer a running chaos campaign",
	Long: `Posts a signal to the listener of a running campaign:

  RUN    resume a paused campaign
  PAUSE  suspend the campaign before its next scenario
  STOP   end the campaign at its next checkpoint (terminal)

Without an argument, prints the campaign's current signal. The campaign must
have been started with publish_kraken_status enabled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSignal,
}

func runSignal(cmd *cobra.Command, args []string) error {
	httpClient := &http.Client{Timeout: 10 * time.Second}

	if len(args) == 0 {
		resp, err := httpClient.Get(fmt.Sprintf("http://%s/", signalAddress))
		if err != nil {
			return fmt.Errorf("cannot reach the signal listener at %s: %w", signalAddress, err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
		if err != nil {
			return fmt.Errorf("failed to read the signal listener response: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", strings.TrimSpace(string(body)))
		return nil
	}

	sig, err := signal.ParseSignal(strings.ToUpper(args[0]))
	if err != nil {
		return err
	}

	resp, err := httpClient.Post(fmt.Sprintf("http://%s/%s", signalAddress, sig), "text/plain", nil)
	if err != nil {
		return fmt.Errorf("cannot reach the signal listener at %s: %w", signalAddress, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("signal listener at %s rejected %s with status %d", signalAddress, sig, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return fmt.Errorf("failed to read the signal listener response: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "signal is now %s\n", strings.TrimSpace(string(body)))
	return nil
}

func init() {
	rootCmd.AddCommand(signalCmd)

	signalCmd.Flags().StringVar(&signalAddress, "address", "localhost:8081", "Address of the running campaign's signal listener")
}
