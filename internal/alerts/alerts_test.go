package alerts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promVectorResponse renders a Prometheus instant-query vector response with
// the given alertname samples.
func promVectorResponse(alertnames ...string) string {
	results := ""
	for i, name := range alertnames {
		if i > 0 {
			results += ","
		}
		results += fmt.Sprintf(
			`{"metric":{"__name__":"ALERTS","alertname":%q,"alertstate":"firing","severity":"critical"},"value":[1700000000,"1"]}`,
			name)
	}
	return `{"status":"success","data":{"resultType":"vector","result":[` + results + `]}}`
}

// promMatrixResponse renders a Prometheus range-query matrix response with
// the given alertname series.
func promMatrixResponse(alertnames ...string) string {
	results := ""
	for i, name := range alertnames {
		if i > 0 {
			results += ","
		}
		results += fmt.Sprintf(
			`{"metric":{"__name__":"ALERTS","alertname":%q,"alertstate":"firing","severity":"critical"},"values":[[1700000000,"1"]]}`,
			name)
	}
	return `{"status":"success","data":{"resultType":"matrix","result":[` + results + `]}}`
}

// promHandler answers the range query with rangeNames and the instant query
// with instantNames.
func promHandler(rangeNames, instantNames []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "query_range") {
			fmt.Fprint(w, promMatrixResponse(rangeNames...))
			return
		}
		fmt.Fprint(w, promVectorResponse(instantNames...))
	}
}

func newPromServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestCriticalAlertsEmpty(t *testing.T) {
	srv := newPromServer(t, promHandler(nil, nil))

	checker, err := NewChecker(srv.URL, "")
	require.NoError(t, err)

	names, err := checker.CriticalAlerts(context.Background(), time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCriticalAlertsFiring(t *testing.T) {
	srv := newPromServer(t, promHandler(
		nil,
		[]string{"KubeAPIDown", "etcdInsufficientMembers", "KubeAPIDown"}))

	checker, err := NewChecker(srv.URL, "")
	require.NoError(t, err)

	names, err := checker.CriticalAlerts(context.Background(), time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"KubeAPIDown", "etcdInsufficientMembers"}, names)
}

func TestCriticalAlertsResolvedInsideWindow(t *testing.T) {
	// The alert fired and resolved between two checks: only the range query
	// over the window sees it, the instant query at the window end is clean.
	srv := newPromServer(t, promHandler([]string{"NodeNotReady"}, nil))

	checker, err := NewChecker(srv.URL, "")
	require.NoError(t, err)

	names, err := checker.CriticalAlerts(context.Background(), time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"NodeNotReady"}, names)
}

func TestCriticalAlertsMergesWindowAndInstant(t *testing.T) {
	srv := newPromServer(t, promHandler(
		[]string{"NodeNotReady", "KubeAPIDown"},
		[]string{"KubeAPIDown", "etcdInsufficientMembers"}))

	checker, err := NewChecker(srv.URL, "")
	require.NoError(t, err)

	names, err := checker.CriticalAlerts(context.Background(), time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"KubeAPIDown", "NodeNotReady", "etcdInsufficientMembers"}, names)
}

func TestCriticalAlertsBearerToken(t *testing.T) {
	var sawAuth atomic.Value
	handler := promHandler(nil, nil)
	srv := newPromServer(t, func(w http.ResponseWriter, r *http.Request) {
		sawAuth.Store(r.Header.Get("Authorization"))
		handler(w, r)
	})

	checker, err := NewChecker(srv.URL, "sekrit")
	require.NoError(t, err)

	_, err = checker.CriticalAlerts(context.Background(), time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Bearer sekrit", sawAuth.Load())
}

func TestCriticalAlertsQueryError(t *testing.T) {
	srv := newPromServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	checker, err := NewChecker(srv.URL, "")
	require.NoError(t, err)

	_, err = checker.CriticalAlerts(context.Background(), time.Now().Add(-time.Minute), time.Now())
	assert.Error(t, err)
}

func TestNewCheckerRejectsBadURL(t *testing.T) {
	_, err := NewChecker("://not-a-url", "")
	assert.Error(t, err)
}
