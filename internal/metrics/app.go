package metrics

import (
	"time"

	"github.com/handlelens/handlelens/internal/observability"
)

// Application metric names following Prometheus conventions.
var (
	// Check metrics
	ChecksTotal   = "app_checks_total"
	CheckDuration = "app_check_duration_ms"

	// Query metrics
	QueriesTotal      = "app_queries_total"
	QueryFanoutGauge  = "app_query_fanout"
	QueriesInFlight   = "app_queries_in_flight"
	QueryDurationName = "app_query_duration_ms"

	// Health check metrics
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
	ServerUptime    = "app_server_uptime_seconds"
)

// RecordCheck records one platform verdict with its status label.
func RecordCheck(platform string, status string, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Counter(
		ChecksTotal,
		1,
		map[string]string{
			"platform": platform,
			"status":   status,
		},
	)
	_ = observability.TelemetrySystem.Histogram(
		CheckDuration,
		duration,
		map[string]string{
			"platform": platform,
		},
	)
}

// RecordQuery records one completed fan-out query.
func RecordQuery(platformCount int, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Counter(QueriesTotal, 1, nil)
	_ = observability.TelemetrySystem.Gauge(QueryFanoutGauge, float64(platformCount), nil)
	_ = observability.TelemetrySystem.Histogram(QueryDurationName, duration, nil)
}

// SetQueriesInFlight sets the number of queries currently running.
func SetQueriesInFlight(count int64) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Gauge(QueriesInFlight, float64(count), nil)
}

// RecordHealthCheck records a health check execution.
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	_ = observability.TelemetrySystem.Counter(
		HealthCheckTotal,
		1,
		map[string]string{
			"check":  checkName,
			"status": status,
		},
	)
	_ = observability.TelemetrySystem.Histogram(
		HealthCheckDuration,
		duration,
		map[string]string{
			"check": checkName,
		},
	)
}

// SetServerStartTime records the server start time as a Unix timestamp.
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Gauge(ServerStartTime, float64(timestamp), nil)
}

// SetServerUptime records the server uptime in seconds.
func SetServerUptime(seconds int64) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Gauge(ServerUptime, float64(seconds), nil)
}
