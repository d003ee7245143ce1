package metrics

import (
	"time"

	"github.com/hide0128/finder/internal/observability"
)

// Application metrics, Prometheus naming.
var (
	LookupsTotal          = "finder_lookups_total"
	LookupDuration        = "finder_lookup_duration_ms"
	BatchCandidates       = "finder_batch_candidates"
	RejectedLinesTotal    = "finder_rejected_lines_total"
	DomainVerifyTotal     = "finder_domain_verifications_total"
	ExportsTotal          = "finder_exports_total"
	APIRequestsTotal      = "finder_api_requests_total"
	APIRequestDuration    = "finder_api_request_duration_ms"
	APIRequestBytes       = "finder_api_request_bytes"
	HealthCheckTotal      = "app_health_check_total"
	HealthCheckDuration   = "app_health_check_duration_ms"
	ServerStartTime       = "app_server_start_time_seconds"
	OperationsErrorsTotal = "app_operations_errors_total"
)

// RecordLookup records one settled lookup.
func RecordLookup(success bool, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	_ = observability.TelemetrySystem.Counter(LookupsTotal, 1, map[string]string{"status": status})
	_ = observability.TelemetrySystem.Histogram(LookupDuration, duration, map[string]string{"status": status})
}

// RecordPrepared records the size of a prepared batch and one rejection per
// dropped line, labelled by the rule that dropped it.
func RecordPrepared(candidates int, rejectedRules []string) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Gauge(BatchCandidates, float64(candidates), nil)
	for _, rule := range rejectedRules {
		_ = observability.TelemetrySystem.Counter(RejectedLinesTotal, 1, map[string]string{"rule": rule})
	}
}

// RecordDomainVerification records an RDAP verification outcome.
func RecordDomainVerification(status string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(DomainVerifyTotal, 1, map[string]string{"status": status})
	}
}

// RecordExport records a rendered export by format.
func RecordExport(format string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(ExportsTotal, 1, map[string]string{"format": format})
	}
}

// RecordAPIRequest records one /v1 call by operation. outcome is ok,
// rejected (4xx) or failed (5xx).
func RecordAPIRequest(operation string, status int, duration time.Duration, requestBytes int64) {
	if observability.TelemetrySystem == nil {
		return
	}
	outcome := "ok"
	switch {
	case status >= 500:
		outcome = "failed"
	case status >= 400:
		outcome = "rejected"
	}
	labels := map[string]string{"operation": operation}
	_ = observability.TelemetrySystem.Counter(APIRequestsTotal, 1, map[string]string{"operation": operation, "outcome": outcome})
	_ = observability.TelemetrySystem.Histogram(APIRequestDuration, duration, labels)
	if requestBytes > 0 {
		_ = observability.TelemetrySystem.Gauge(APIRequestBytes, float64(requestBytes), labels)
	}
}

// RecordOperationError records an application operation error
func RecordOperationError(operation string, errorType string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			OperationsErrorsTotal,
			1,
			map[string]string{
				"operation":  operation,
				"error_type": errorType,
			},
		)
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}
	_ = observability.TelemetrySystem.Counter(HealthCheckTotal, 1, map[string]string{"check": checkName, "status": status})
	_ = observability.TelemetrySystem.Histogram(HealthCheckDuration, duration, map[string]string{"check": checkName})
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(ServerStartTime, float64(timestamp), nil)
	}
}
