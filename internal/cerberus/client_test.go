package cerberus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckGoSignal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("True"))
	}))
	defer srv.Close()

	verdict := NewClient(srv.URL).Check(context.Background())
	assert.True(t, verdict.Healthy)
	assert.Empty(t, verdict.Reason)
}

func TestCheckTrimsWhitespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("True\n"))
	}))
	defer srv.Close()

	verdict := NewClient(srv.URL).Check(context.Background())
	assert.True(t, verdict.Healthy)
}

func TestCheckNoGoSignal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("False"))
	}))
	defer srv.Close()

	verdict := NewClient(srv.URL).Check(context.Background())
	assert.False(t, verdict.Healthy)
	assert.Contains(t, verdict.Reason, "no-go")
}

func TestCheckUnreachableOracleIsUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	verdict := NewClient(srv.URL).Check(context.Background())
	assert.False(t, verdict.Healthy)
	assert.Contains(t, verdict.Reason, "unreachable")
}

func TestCheckHonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	verdict := NewClient(srv.URL).Check(ctx)
	assert.False(t, verdict.Healthy)
}
