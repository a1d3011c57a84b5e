// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	ScoresComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_scores_computed_total",
			Help: "Number of profile/posting or candidate scores computed",
		},
		[]string{"operation"},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_recommendations_returned",
			Help:    "Number of postings returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	CandidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_candidates_returned",
			Help:    "Number of candidates returned per scout request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	UpsertFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_upsert_failures_total",
			Help: "Match records that could not be persisted during recommendation",
		},
	)

	FeedbackRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_feedback_total",
			Help: "Feedback submissions by value and whether a match record was updated",
		},
		[]string{"feedback", "recorded"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_cache_lookups_total",
			Help: "Redis cache lookups by key family and result",
		},
		[]string{"family", "result"},
	)
)
