// Package metrics declares the Prometheus collectors shared by the API and worker.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Score sources.
const (
	SourceBackend  = "backend"
	SourceFallback = "fallback"
)

var (
	ScoringRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgenius_scoring_requests_total",
			Help: "Total number of scoring requests by dataset and score source",
		},
		[]string{"dataset_type", "source"},
	)

	FallbackScores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgenius_fallback_total",
			Help: "Total number of locally computed fallback scores",
		},
		[]string{"dataset_type", "reason"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadgenius_backend_request_duration_seconds",
			Help:    "Duration of scoring backend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ReportsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgenius_reports_rendered_total",
			Help: "Total number of rendered reports by format and outcome",
		},
		[]string{"format", "outcome"},
	)

	AnalysesSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadgenius_analyses_saved_total",
			Help: "Total number of saved lead analyses",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadgenius_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	ArchiveJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgenius_archive_jobs_total",
			Help: "Total number of report archive jobs by outcome",
		},
		[]string{"outcome"},
	)
)

// Handler exposes the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
