package integration

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hide0128/finder/internal/config"
	"github.com/hide0128/finder/internal/core/engine"
	"github.com/hide0128/finder/internal/observability"
	"github.com/hide0128/finder/internal/output"
	"github.com/hide0128/finder/internal/server"
	"github.com/hide0128/finder/internal/server/handlers"
)

const sentinel = "情報なし"

// cleanupMetrics tears down global telemetry state so each test starts clean.
func cleanupMetrics(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		if observability.PrometheusExporter != nil {
			_ = observability.PrometheusExporter.Stop()
			observability.PrometheusExporter = nil
		}
		observability.TelemetrySystem = nil
	})
}

// isPermissionError normalizes OS-specific permission errors so tests can
// skip when loopback sockets are blocked.
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EACCES) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{"permission denied", "operation not permitted", "not permitted"} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func initMetricsOrSkip(t *testing.T) {
	t.Helper()
	if err := observability.InitMetrics("test", 0); err != nil {
		if isPermissionError(err) {
			t.Skipf("skipping metrics tests due to sandbox permissions: %v", err)
		}
		require.NoError(t, err)
	}
	cleanupMetrics(t)
}

// newAPIServer serves the full router over IPv4 loopback with a real
// orchestrator in front of lookup.
func newAPIServer(t *testing.T, lookup engine.LookupFunc) (*httptest.Server, *http.Client) {
	t.Helper()

	orchestrator := &engine.Orchestrator{
		Lookuper:        lookup,
		UnknownSentinel: sentinel,
		Logger:          observability.Logger(),
	}
	api := &handlers.FinderAPI{
		Searcher: orchestrator,
		Render:   output.Options{Sentinel: sentinel},
	}
	srv := server.New(config.ServerConfig{Host: "127.0.0.1", MaxBodyBytes: 1 << 20}, api, nil)

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if isPermissionError(err) {
			t.Skipf("skipping server setup: %v", err)
		}
		require.NoError(t, err)
	}

	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: srv.Handler()},
	}
	ts.Start()
	t.Cleanup(ts.Close)
	return ts, ts.Client()
}
