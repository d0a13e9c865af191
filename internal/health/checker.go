package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"krkn/internal/config"
	"krkn/pkg/logging"
)

const subsystem = "HealthChecker"

const probeTimeout = 10 * time.Second

// Record is one observed availability interval of a probed target: either a
// downtime window (Healthy=false) or, for targets that never went down, a
// single healthy interval spanning the whole campaign.
type Record struct {
	URL        string
	Healthy    bool
	StatusCode int
	Start      time.Time
	End        time.Time
	Duration   time.Duration
}

// Checker probes application URLs in the background while the chaos campaign
// runs, recording downtime windows per target. It answers, at the end of the
// run, whether any target marked exit_on_failure experienced downtime.
type Checker struct {
	cfg        config.HealthChecksConfig
	httpClient *http.Client

	mu      sync.Mutex
	records []Record
	failed  bool

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewChecker builds a Checker for the given configuration.
func NewChecker(cfg config.HealthChecksConfig) *Checker {
	return &Checker{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: probeTimeout},
	}
}

// Start launches one monitor per configured target. It is a no-op when no
// targets are configured. Monitors run until the passed context is cancelled;
// call Wait afterwards to collect the results.
func (c *Checker) Start(ctx context.Context) {
	if len(c.cfg.Config) == 0 {
		logging.Info(subsystem, "health checks config is not defined, skipping them")
		return
	}

	interval := time.Duration(c.cfg.Interval) * time.Second
	if interval <= 0 {
		interval = config.DefaultHealthCheckInterval * time.Second
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.group, ctx = errgroup.WithContext(ctx)
	for _, target := range c.cfg.Config {
		c.group.Go(func() error {
			c.monitor(ctx, target, interval)
			return nil
		})
	}
	logging.Info(subsystem, "started health checks for %d targets every %s", len(c.cfg.Config), interval)
}

// Stop ends all monitors and blocks until their final records are flushed.
func (c *Checker) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	_ = c.group.Wait()
}

// Results returns the recorded availability intervals and whether any
// exit_on_failure target experienced downtime. Call after Stop.
func (c *Checker) Results() ([]Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Record(nil), c.records...), c.failed
}

// monitor probes one target until the context ends, folding consecutive
// non-200 responses into a single downtime window.
func (c *Checker) monitor(ctx context.Context, target config.HealthCheckTarget, interval time.Duration) {
	start := time.Now()
	var down *Record // open downtime window, nil while healthy
	everDown := false

	finalize := func() {
		end := time.Now()
		if down != nil {
			c.closeWindow(down, end)
			return
		}
		if !everDown {
			c.mu.Lock()
			c.records = append(c.records, Record{
				URL:        target.URL,
				Healthy:    true,
				StatusCode: http.StatusOK,
				Start:      start,
				End:        end,
				Duration:   end.Sub(start),
			})
			c.mu.Unlock()
		}
	}

	for {
		status, healthy := c.probe(ctx, target)
		if ctx.Err() != nil {
			// Shutdown interrupted the probe; its result is not a real
			// observation of the target.
			finalize()
			return
		}
		now := time.Now()

		if !healthy && down == nil {
			down = &Record{URL: target.URL, StatusCode: status, Start: now}
			everDown = true
			logging.Warn(subsystem, "%s went unhealthy (status %d)", target.URL, status)
			if target.ExitOnFailure {
				c.mu.Lock()
				c.failed = true
				c.mu.Unlock()
			}
		}
		if healthy && down != nil {
			c.closeWindow(down, now)
			logging.Info(subsystem, "%s recovered after %s", target.URL, now.Sub(down.Start).Round(time.Second))
			down = nil
		}

		select {
		case <-ctx.Done():
			finalize()
			return
		case <-time.After(interval):
		}
	}
}

func (c *Checker) closeWindow(down *Record, end time.Time) {
	down.End = end
	down.Duration = end.Sub(down.Start)
	c.mu.Lock()
	c.records = append(c.records, *down)
	c.mu.Unlock()
}

// probe issues one GET against the target, attaching bearer or basic auth
// when configured. Transport errors count as unhealthy with status 0.
func (c *Checker) probe(ctx context.Context, target config.HealthCheckTarget) (int, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return 0, false
	}
	if target.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+target.BearerToken)
	} else if target.Username != "" {
		req.SetBasicAuth(target.Username, target.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	return resp.StatusCode, resp.StatusCode == http.StatusOK
}
