// Package moderation provides AI content-moderation implementations for
// submitted articles. It includes adapters for Claude (Anthropic) and the
// OpenAI Moderations API with reliability patterns, plus a NoOp moderator
// for development. All implementations report through structured logging
// and Prometheus metrics.
package moderation

import (
	"context"
	"log/slog"
	"os"
)

// Verdict is the outcome of a moderation check.
type Verdict struct {
	// Safe reports whether the content may be published.
	Safe bool

	// Explanation is a short human-readable reason when Safe is false.
	// It is returned to the submitter verbatim, so it must never contain
	// provider internals.
	Explanation string
}

// Moderator checks article content before publication.
// Implementations must return an error only for operational failures
// (network, provider outage); a content rejection is a successful check
// with Safe=false.
type Moderator interface {
	Check(ctx context.Context, content string) (Verdict, error)
}

// NewFromEnv constructs a Moderator based on environment configuration.
//
// Environment variables:
//   - MODERATION_PROVIDER: "claude" (default), "openai", or "noop"
//   - ANTHROPIC_API_KEY: required for the claude provider
//   - OPENAI_API_KEY: required for the openai provider
//
// A missing API key for the selected provider degrades to NoOp with a
// warning rather than failing startup: the pipeline treats moderation as
// best-effort and must keep accepting submissions.
func NewFromEnv() Moderator {
	provider := os.Getenv("MODERATION_PROVIDER")
	if provider == "" {
		provider = "claude"
	}

	switch provider {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			slog.Warn("ANTHROPIC_API_KEY not set, content moderation disabled",
				slog.String("provider", provider))
			return NewNoOp()
		}
		return NewClaude(apiKey)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			slog.Warn("OPENAI_API_KEY not set, content moderation disabled",
				slog.String("provider", provider))
			return NewNoOp()
		}
		moderator, err := NewOpenAI(apiKey)
		if err != nil {
			slog.Warn("openai moderator configuration invalid, content moderation disabled",
				slog.String("error", err.Error()))
			return NewNoOp()
		}
		return moderator
	case "noop":
		return NewNoOp()
	default:
		slog.Warn("unknown MODERATION_PROVIDER, content moderation disabled",
			slog.String("provider", provider))
		return NewNoOp()
	}
}
