package alerts

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"krkn/pkg/logging"
)

const subsystem = "Alerts"

// criticalAlertsQuery matches alerts firing at critical severity. It is
// evaluated both over the run window and at its end, so an alert that fires
// and resolves between two checks is still observed.
const criticalAlertsQuery = `ALERTS{alertstate="firing",severity="critical"}`

// Checker queries a Prometheus instance for critical alerts attributable to
// the chaos run.
type Checker struct {
	api v1.API
}

// bearerRoundTripper injects a bearer token into every Prometheus request.
type bearerRoundTripper struct {
	token string
	next  http.RoundTripper
}

func (b *bearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+b.token)
	return b.next.RoundTrip(cloned)
}

// NewChecker builds a Checker against the Prometheus instance at url. The
// bearer token is optional; pass the empty string for unauthenticated access.
func NewChecker(url, bearerToken string) (*Checker, error) {
	cfg := api.Config{Address: url}
	if bearerToken != "" {
		cfg.RoundTripper = &bearerRoundTripper{token: bearerToken, next: api.DefaultRoundTripper}
	}
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus client for %s: %w", url, err)
	}
	return &Checker{api: v1.NewAPI(client)}, nil
}

// queryStep is the resolution of the range query over the run window.
const queryStep = 30 * time.Second

// CriticalAlerts implements runner.AlertChecker: it returns the names of
// critical alerts that fired at any point inside the given window,
// deduplicated and sorted. The window is covered by a range query so an alert
// that fires and resolves between two checks is still caught; an instant
// query at the window end adds alerts younger than the range resolution.
func (c *Checker) CriticalAlerts(ctx context.Context, from, to time.Time) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	collect := func(metric model.Metric) {
		name := string(metric["alertname"])
		if name == "" {
			name = metric.String()
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	rangeResult, warnings, err := c.api.QueryRange(ctx, criticalAlertsQuery,
		v1.Range{Start: from, End: to, Step: queryStep})
	if err != nil {
		return nil, fmt.Errorf("critical alerts range query failed: %w", err)
	}
	logWarnings(warnings)
	matrix, ok := rangeResult.(model.Matrix)
	if !ok {
		return nil, fmt.Errorf("unexpected prometheus result type %s", rangeResult.Type())
	}
	for _, stream := range matrix {
		collect(stream.Metric)
	}

	instantResult, warnings, err := c.api.Query(ctx, criticalAlertsQuery, to)
	if err != nil {
		return nil, fmt.Errorf("critical alerts query failed: %w", err)
	}
	logWarnings(warnings)
	vector, ok := instantResult.(model.Vector)
	if !ok {
		return nil, fmt.Errorf("unexpected prometheus result type %s", instantResult.Type())
	}
	for _, sample := range vector {
		collect(sample.Metric)
	}

	sort.Strings(names)
	if len(names) > 0 {
		logging.Error(subsystem, nil, "critical alerts firing: %v", names)
	}
	return names, nil
}

func logWarnings(warnings v1.Warnings) {
	for _, w := range warnings {
		logging.Warn(subsystem, "prometheus warning: %s", w)
	}
}
