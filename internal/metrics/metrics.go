package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Batch metrics
var (
	BatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "muxbatch_batches_total",
			Help: "Total number of batches started",
		},
	)

	BatchJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "muxbatch_batch_jobs",
			Help: "Number of jobs in the current batch",
		},
	)
)

// Job metrics
var (
	JobsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "muxbatch_jobs_running",
			Help: "Number of jobs that have reported progress and not yet finished",
		},
	)

	JobsFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muxbatch_jobs_finished_total",
			Help: "Total number of finished jobs",
		},
		[]string{"status"}, // "succeeded", "failed"
	)

	JobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muxbatch_job_failures_total",
			Help: "Total number of failed jobs by failure kind",
		},
		[]string{"kind"}, // "probe", "spawn", "execution", "cancelled", "timeout", "other"
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "muxbatch_job_duration_seconds",
			Help:    "Wall time of a job from probe to exit",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 3600, 7200},
		},
		[]string{"status"},
	)

	ProgressPointsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "muxbatch_progress_points_total",
			Help: "Sum of all reported progress deltas, in percentage points",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muxbatch_http_requests_total",
			Help: "Total number of HTTP requests to the status listener",
		},
		[]string{"method", "path", "status"},
	)
)
