package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surprise_week_http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "surprise_week_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surprise_week_uploads_total",
			Help: "Media uploads by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	SurpriseReveals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surprise_week_reveals_total",
			Help: "Unlocked surprises served to the viewer.",
		},
	)
)
