package prometheus

import (
	"time"

	"kafka-governance/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Tenant context metrics
	TenantContextMissingCounter prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Reconciliation metrics
	ReconciliationRunsCounter  prometheus.CounterVec
	DriftEntriesGauge          prometheus.GaugeVec
	ClusterFetchDuration       prometheus.HistogramVec
	ClusterFetchErrorsCounter  prometheus.CounterVec
	SyncCommitBatchesCounter   prometheus.CounterVec
	SyncBackTopicsCounter      prometheus.CounterVec
	ScheduledRunsCounter        prometheus.Counter
	ScheduledRunsSkippedCounter prometheus.Counter
)

var initialized bool

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix
	initialized = true

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	TenantContextMissingCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_context_missing_total",
			Help: "Total number of requests without tenant context",
		},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	ReconciliationRunsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_reconciliation_runs_total",
			Help: "Total number of reconciliation passes",
		},
		[]string{"mode"},
	)

	DriftEntriesGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_drift_entries",
			Help: "Drift entries observed in the latest reconciliation pass",
		},
		[]string{"tenant", "environment", "remark"},
	)

	ClusterFetchDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_cluster_fetch_duration_seconds",
			Help:    "Duration of cluster topic inventory fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"cluster"},
	)

	ClusterFetchErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cluster_fetch_errors_total",
			Help: "Total number of failed cluster topic inventory fetches",
		},
		[]string{"cluster"},
	)

	SyncCommitBatchesCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sync_commit_batches_total",
			Help: "Total number of sync decision batches committed",
		},
		[]string{"result"},
	)

	SyncBackTopicsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sync_back_topics_total",
			Help: "Total number of topics processed by sync-back",
		},
		[]string{"result"},
	)

	ScheduledRunsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_scheduled_runs_total",
			Help: "Total number of scheduled reconciliation runs executed",
		},
	)

	ScheduledRunsSkippedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_scheduled_runs_skipped_total",
			Help: "Total number of scheduled runs skipped because the lock was held elsewhere",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if !initialized {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthAttempt increments the authentication attempt counter
func RecordAuthAttempt() {
	if !initialized {
		return
	}
	AuthAttemptsCounter.Inc()
}

// RecordAuthError increments the authentication error counter
func RecordAuthError() {
	if !initialized {
		return
	}
	AuthErrorsCounter.Inc()
}

// RecordTenantContextMissing increments the missing tenant context counter
func RecordTenantContextMissing() {
	if !initialized {
		return
	}
	TenantContextMissingCounter.Inc()
}

// RecordReconciliationRun increments the reconciliation pass counter
func RecordReconciliationRun(mode string) {
	if !initialized {
		return
	}
	ReconciliationRunsCounter.WithLabelValues(mode).Inc()
}

// RecordDriftEntries sets the drift gauge for one environment and remark
func RecordDriftEntries(tenant, environment, remark string, count int) {
	if !initialized {
		return
	}
	DriftEntriesGauge.WithLabelValues(tenant, environment, remark).Set(float64(count))
}

// RecordClusterFetch records the duration of a cluster inventory fetch
func RecordClusterFetch(cluster string, seconds float64) {
	if !initialized {
		return
	}
	ClusterFetchDuration.WithLabelValues(cluster).Observe(seconds)
}

// RecordClusterFetchError increments the failed cluster fetch counter
func RecordClusterFetchError(cluster string) {
	if !initialized {
		return
	}
	ClusterFetchErrorsCounter.WithLabelValues(cluster).Inc()
}

// RecordSyncCommit increments the commit batch counter
func RecordSyncCommit(result string) {
	if !initialized {
		return
	}
	SyncCommitBatchesCounter.WithLabelValues(result).Inc()
}

// RecordSyncBackTopic increments the per-topic sync-back counter
func RecordSyncBackTopic(result string) {
	if !initialized {
		return
	}
	SyncBackTopicsCounter.WithLabelValues(result).Inc()
}

// RecordScheduledRun increments the executed scheduled run counter
func RecordScheduledRun() {
	if !initialized {
		return
	}
	ScheduledRunsCounter.Inc()
}

// RecordScheduledRunSkipped increments the skipped scheduled run counter
func RecordScheduledRunSkipped() {
	if !initialized {
		return
	}
	ScheduledRunsSkippedCounter.Inc()
}
