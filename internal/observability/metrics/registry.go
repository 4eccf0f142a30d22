// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission pipeline metrics track form submissions through the gate,
// moderation, identity, and persistence stages.
var (
	// SubmissionsTotal counts submissions by endpoint and terminal outcome.
	// Outcomes: published, rejected_validation, rejected_moderation,
	// rejected_antibot, rejected_region, conflict, auth_failed, error.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Total number of article submissions by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	// AntibotRejectionsTotal counts silent anti-bot rejections by signal.
	// Signals: honeypot, timing.
	AntibotRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "antibot_rejections_total",
			Help: "Total number of silent anti-bot rejections by signal",
		},
		[]string{"signal"},
	)

	// SubmissionWordCount observes the word count of content that passed
	// field validation, for tuning the allowed bounds.
	SubmissionWordCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "submission_word_count",
			Help:    "Word count distribution of submitted article content",
			Buckets: prometheus.LinearBuckets(250, 250, 10),
		},
	)
)

// Moderation metrics track the external content-safety check.
var (
	// ModerationRequestsTotal counts moderation calls by provider and result.
	// Results: safe, unsafe, failed_open, skipped.
	ModerationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_requests_total",
			Help: "Total number of moderation checks by provider and result",
		},
		[]string{"provider", "result"},
	)

	// ModerationDuration measures end-to-end moderation call latency.
	ModerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_duration_seconds",
			Help:    "Moderation check duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"provider"},
	)
)

// Identity provider metrics track calls to the external auth service.
var (
	// IdentityRequestsTotal counts auth provider calls by operation and status.
	// Operations: create_ephemeral, resolve_token, delete_user, list_users.
	IdentityRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_requests_total",
			Help: "Total number of auth provider calls by operation and status",
		},
		[]string{"operation", "status"},
	)
)

// Reaper metrics track the background cleanup of orphaned ephemeral accounts.
var (
	// ReaperRunsTotal counts reaper runs by status (success, failure).
	ReaperRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_runs_total",
			Help: "Total number of ephemeral account reaper runs by status",
		},
		[]string{"status"},
	)

	// ReaperAccountsDeleted counts ephemeral accounts removed by the reaper.
	ReaperAccountsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reaper_accounts_deleted_total",
			Help: "Total number of orphaned ephemeral accounts deleted",
		},
	)
)

// Database metrics.
var (
	// DBQueryDuration measures database query duration by operation.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)
