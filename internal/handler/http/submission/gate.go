// Package submission exposes the article submission endpoints. The gate
// checks run here, before any use case logic: anti-bot signals answer with
// an empty 204 so automated clients learn nothing, and policy rejections
// carry exact, user-facing messages.
package submission

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"agora-forum/internal/domain/entity"
	"agora-forum/internal/handler/http/respond"
	"agora-forum/internal/observability/metrics"
	"agora-forum/internal/utils/text"
	"agora-forum/pkg/config"
)

// countryHeader carries the edge-resolved country code of the client.
const countryHeader = "CF-IPCountry"

// minFormTime is the minimum human-plausible delay between form render and
// submit. Anything faster is scripted.
const minFormTime = 3000 * time.Millisecond

// Gate validates a submission request before any network call is made.
type Gate struct {
	// AllowedCountry is the single country code submissions are accepted
	// from.
	AllowedCountry string
}

// NewGateFromEnv builds a Gate from environment configuration.
//
// Environment variables:
//   - ALLOWED_COUNTRY: accepted country code (default: IN)
func NewGateFromEnv() Gate {
	return Gate{AllowedCountry: config.GetEnvString("ALLOWED_COUNTRY", "IN")}
}

// allow runs the shared policy checks: region, then the entity validators.
// Validator failures are mapped to the fixed user-facing messages here; the
// ValidationError detail stays internal. On rejection it writes the
// terminal response and returns false.
func (g Gate) allow(w http.ResponseWriter, r *http.Request, title, content string) bool {
	if country := r.Header.Get(countryHeader); country != g.AllowedCountry {
		respond.Error(w, http.StatusForbidden,
			fmt.Errorf("This service is restricted to users in %s.", g.AllowedCountry))
		return false
	}

	if title == "" || content == "" {
		respond.Error(w, http.StatusBadRequest,
			errors.New("Title and content are required."))
		return false
	}

	if err := entity.ValidateTitle(title); err != nil {
		respond.Error(w, http.StatusBadRequest,
			fmt.Errorf("Your title must be %d characters or less.", entity.MaxTitleLength))
		return false
	}

	words := text.CountWords(content)
	metrics.RecordSubmissionWordCount(words)
	if err := entity.ValidateContent(content); err != nil {
		respond.Error(w, http.StatusBadRequest,
			fmt.Errorf("Your article must be between %d and %d words.", entity.MinWordCount, entity.MaxWordCount))
		return false
	}

	return true
}

// rejectBot checks the anonymous-only anti-bot signals and answers with an
// empty 204 when one fires. The response must not reveal which signal
// tripped, or that a check happened at all.
func rejectBot(w http.ResponseWriter, r *http.Request, now time.Time) bool {
	if r.PostFormValue("user_nickname") != "" {
		metrics.RecordAntibotRejection("honeypot")
		w.WriteHeader(http.StatusNoContent)
		return true
	}

	if raw := r.PostFormValue("form_load_time"); raw != "" {
		// An unparseable timestamp passes: a broken client is not proof
		// of a bot, and real bots fill the honeypot anyway.
		loadedAt, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && now.UnixMilli()-loadedAt < minFormTime.Milliseconds() {
			metrics.RecordAntibotRejection("timing")
			w.WriteHeader(http.StatusNoContent)
			return true
		}
	}

	return false
}
