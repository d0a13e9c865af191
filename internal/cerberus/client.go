package cerberus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"krkn/internal/runner"
	"krkn/pkg/logging"
)

const subsystem = "Cerberus"

// requestTimeout bounds a single status fetch. Cerberus publishes a tiny
// plain-text body, so anything slower means the oracle itself is in trouble.
const requestTimeout = 60 * time.Second

// Client queries a cerberus instance for its cluster go/no-go signal.
// Cerberus publishes the literal string "True" when the cluster is healthy;
// any other body is a no-go.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient builds a Client for the cerberus instance at url.
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Check implements runner.HealthOracle. An unreachable oracle is reported as
// unhealthy rather than an error: the controller cannot distinguish "cluster
// broken" from "oracle broken" and treating either as a go signal would defeat
// the point of consulting it.
func (c *Client) Check(ctx context.Context) runner.HealthVerdict {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return runner.HealthVerdict{Healthy: false, Reason: fmt.Sprintf("invalid cerberus url: %v", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Error(subsystem, err, "failed to reach cerberus at %s", c.url)
		return runner.HealthVerdict{Healthy: false, Reason: fmt.Sprintf("cerberus unreachable: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return runner.HealthVerdict{Healthy: false, Reason: fmt.Sprintf("failed to read cerberus response: %v", err)}
	}

	status := strings.TrimSpace(string(body))
	if status == "True" {
		logging.Info(subsystem, "received a go signal from cerberus, the cluster is healthy")
		return runner.HealthVerdict{Healthy: true}
	}

	logging.Error(subsystem, nil, "received a no-go signal from cerberus, please check the cerberus report for details")
	return runner.HealthVerdict{
		Healthy: false,
		Reason:  fmt.Sprintf("cerberus no-go signal (status %d, body %q)", resp.StatusCode, status),
	}
}
