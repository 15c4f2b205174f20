// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of pension lookup webhook requests by outcome",
		},
		[]string{"outcome"},
	)

	WebhookRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_request_duration_seconds",
			Help:    "Duration of pension lookup webhook requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"outcome"},
	)

	DatasetRecordsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_records_loaded",
			Help: "Number of enrollment records in the loaded dataset",
		},
		[]string{"source"},
	)

	DatasetLoadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_load_failures_total",
			Help: "Total number of failed dataset load attempts",
		},
		[]string{"source"},
	)
)
