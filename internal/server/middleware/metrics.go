package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hide0128/finder/internal/metrics"
	"github.com/hide0128/finder/internal/observability"
)

const apiPrefix = "/v1/"

// statusRecorder keeps the status code and body size the handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.bytes += int64(n)
	return n, err
}

// routeLabel returns a low-cardinality endpoint label and, for /v1 calls, the
// operation name (normalize, lookup, export).
func routeLabel(r *http.Request) (endpoint, operation string) {
	endpoint = r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			endpoint = pattern
		}
	}

	switch {
	case strings.HasPrefix(endpoint, apiPrefix):
		op := strings.TrimPrefix(endpoint, apiPrefix)
		switch op {
		case "normalize", "lookup", "export":
			return endpoint, op
		}
		return "/v1/*", ""
	case endpoint == "/health" || strings.HasPrefix(endpoint, "/health/"):
		return "/health/*", ""
	case endpoint == "/version", endpoint == "/metrics", endpoint == "/admin/signal":
		return endpoint, ""
	}
	return "/unknown", ""
}

// RequestMetrics counts every request by endpoint and status. /v1 calls are
// also recorded per operation with their own duration histogram, since a
// lookup batch runs orders of magnitude longer than a probe.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if observability.TelemetrySystem == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		endpoint, operation := routeLabel(r)
		status := strconv.Itoa(rec.status)
		labels := map[string]string{"method": r.Method, "endpoint": endpoint, "status": status}

		_ = observability.TelemetrySystem.Counter("http_requests_total", 1, labels)
		if operation == "" {
			_ = observability.TelemetrySystem.Histogram("http_request_duration_ms", elapsed, labels)
		} else {
			metrics.RecordAPIRequest(operation, rec.status, elapsed, r.ContentLength)
		}
		if rec.status >= 400 {
			_ = observability.TelemetrySystem.Counter("http_errors_total", 1, labels)
		}

		if observability.ServerLogger == nil {
			return
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("endpoint", endpoint),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
			zap.Int64("response_bytes", rec.bytes),
			zap.String("requestID", GetRequestID(r.Context())),
		}
		if operation != "" {
			observability.ServerLogger.Info("API request completed", append(fields, zap.String("operation", operation))...)
			return
		}
		observability.ServerLogger.Debug("HTTP request completed", fields...)
	})
}
