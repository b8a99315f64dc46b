// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_client_requests_total",
			Help: "Total number of REST API requests by endpoint family and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	APIRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_client_retries_total",
			Help: "Total number of second attempts after a transient failure",
		},
		[]string{"endpoint"},
	)

	APIWarmupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_client_warmups_total",
			Help: "Total number of warm-up probe sequences triggered",
		},
	)

	RecordOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "record_op_duration_seconds",
			Help: "Duration of record access layer operations in seconds",
		},
		[]string{"op"},
	)

	SessionExpirationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_expirations_total",
			Help: "Total number of sessions expired by the background watcher",
		},
	)
)
