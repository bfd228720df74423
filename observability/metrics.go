package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

var (
	// DeleteAttempts counts post delete attempts by strategy and outcome.
	DeleteAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storycms_delete_attempts_total",
		Help: "Post delete attempts by strategy and outcome",
	}, []string{"strategy", "outcome"})

	// StorySubmissions counts anonymous story submissions by outcome.
	StorySubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storycms_story_submissions_total",
		Help: "Anonymous story submissions by outcome",
	}, []string{"outcome"})

	// SubmissionFallbacks counts intake fallbacks (placeholder image, fallback author).
	SubmissionFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storycms_submission_fallbacks_total",
		Help: "Story intake fallbacks by kind",
	}, []string{"kind"})

	// PostTransitions counts status transitions applied to posts.
	PostTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storycms_post_transitions_total",
		Help: "Post status transitions by source and target status",
	}, []string{"from", "to"})

	// CacheRequests counts public listing cache lookups.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storycms_cache_requests_total",
		Help: "Public cache lookups by result",
	}, []string{"result"})

	// HTTPRequestDuration records request latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storycms_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
