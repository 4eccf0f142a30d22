package metrics

import "time"

// RecordSubmission records the terminal outcome of one submission request.
// Endpoint is "submit" or "submit_anonymous".
func RecordSubmission(endpoint, outcome string) {
	SubmissionsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordAntibotRejection records a silent anti-bot rejection.
// Signal is "honeypot" or "timing".
func RecordAntibotRejection(signal string) {
	AntibotRejectionsTotal.WithLabelValues(signal).Inc()
}

// RecordSubmissionWordCount records the word count of content that passed
// field validation.
func RecordSubmissionWordCount(words int) {
	SubmissionWordCount.Observe(float64(words))
}

// RecordModeration records the result of one moderation check.
// Result should be "safe", "unsafe", "failed_open", or "skipped".
func RecordModeration(provider, result string, duration time.Duration) {
	ModerationRequestsTotal.WithLabelValues(provider, result).Inc()
	ModerationDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordIdentityRequest records one call against the auth provider.
func RecordIdentityRequest(operation string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	IdentityRequestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordReaperRun records one reaper run along with the number of accounts
// it deleted.
func RecordReaperRun(success bool, deleted int) {
	status := "success"
	if !success {
		status = "failure"
	}
	ReaperRunsTotal.WithLabelValues(status).Inc()
	if deleted > 0 {
		ReaperAccountsDeleted.Add(float64(deleted))
	}
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
