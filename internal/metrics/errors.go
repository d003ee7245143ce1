package metrics

import (
	"strconv"

	"github.com/hide0128/finder/internal/observability"
)

// Error metric names
const (
	ErrorsTotal      = "finder_errors_total"
	PanicsTotal      = "finder_panics_total"
	ErrorsByEndpoint = "finder_errors_by_endpoint"
)

// RecordError counts an API error response by code and status.
func RecordError(errorCode string, httpStatus int) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(ErrorsTotal, 1, map[string]string{
		"error_code":  errorCode,
		"http_status": strconv.Itoa(httpStatus),
	})
}

// RecordPanic counts a recovered panic, whether in an HTTP handler or a
// single lookup.
func RecordPanic() {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(PanicsTotal, 1, nil)
}

// RecordErrorByEndpoint counts an API error by route path.
func RecordErrorByEndpoint(endpoint string, errorCode string) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(ErrorsByEndpoint, 1, map[string]string{
		"endpoint":   endpoint,
		"error_code": errorCode,
	})
}
