package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"agora-forum/internal/observability/metrics"
	"agora-forum/internal/resilience/circuitbreaker"
	"agora-forum/internal/resilience/retry"
	"agora-forum/internal/utils/text"
)

// openAIUnsafeExplanationFormat is shown to the author when the Moderations API
// flags the content. The endpoint returns category scores, not prose, so
// the explanation names the worst-scoring category.
const openAIUnsafeExplanationFormat = "Your post was flagged as inappropriate by our AI moderator (category: %s)."

// OpenAIConfig holds configuration parameters for the OpenAI moderator.
type OpenAIConfig struct {
	// Model is the Moderations API model identifier.
	// Loaded from MODERATION_MODEL, defaulting to omni-moderation-latest.
	Model string

	// Thresholds are the per-category rejection cutoffs.
	Thresholds Thresholds

	// Timeout is the maximum duration for a single moderation API call.
	Timeout time.Duration
}

// Validate checks the configuration and returns an error if invalid.
func (c *OpenAIConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	return nil
}

// LoadOpenAIConfig loads configuration from environment variables.
// Returns an error if the configuration is invalid (fail-closed: a broken
// threshold file should surface at startup, not silently loosen moderation).
//
// Environment variables:
//   - MODERATION_MODEL: Moderations API model (default: omni-moderation-latest)
//   - MODERATION_THRESHOLDS_FILE: optional YAML threshold overrides
func LoadOpenAIConfig() (*OpenAIConfig, error) {
	model := openai.ModerationOmniLatest
	if envModel := os.Getenv("MODERATION_MODEL"); envModel != "" {
		model = envModel
	}

	thresholds, err := LoadThresholds()
	if err != nil {
		return nil, fmt.Errorf("load moderation thresholds: %w", err)
	}

	config := &OpenAIConfig{
		Model:      model,
		Thresholds: thresholds,
		Timeout:    30 * time.Second,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid OpenAI moderation configuration: %w", err)
	}

	return config, nil
}

// OpenAI implements the Moderator interface using OpenAI's Moderations API.
// Unlike the Claude moderator it is score-based: the API returns per-category
// probabilities and the verdict comes from comparing them to configured
// thresholds.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         *OpenAIConfig
}

// NewOpenAI creates a new OpenAI moderator with the given API key.
func NewOpenAI(apiKey string) (*OpenAI, error) {
	config, err := LoadOpenAIConfig()
	if err != nil {
		return nil, err
	}

	slog.Info("Initialized OpenAI moderator with configuration",
		slog.String("model", config.Model),
		slog.Duration("timeout", config.Timeout))

	return &OpenAI{
		client:         openai.NewClient(apiKey),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ModerationAPIConfig()),
		retryConfig:    retry.ModerationAPIConfig(),
		config:         config,
	}, nil
}

// Breaker exposes the circuit breaker guarding the Moderations API for health reporting.
func (o *OpenAI) Breaker() *circuitbreaker.CircuitBreaker {
	return o.circuitBreaker
}

// Check moderates the given content using the OpenAI Moderations API.
// It uses circuit breaker and retry logic for improved reliability.
func (o *OpenAI) Check(ctx context.Context, content string) (Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result Verdict

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doCheck(ctx, content)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("moderation api circuit breaker open, request rejected",
					slog.String("service", "moderation-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("moderation api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(Verdict)
		return nil
	})

	if retryErr != nil {
		return Verdict{}, fmt.Errorf("openai moderation failed after retries: %w", retryErr)
	}

	return result, nil
}

// doCheck performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doCheck(ctx context.Context, content string) (Verdict, error) {
	// The Moderations API caps input length; the submission gate already
	// bounds articles at 2500 words so truncation is a last-resort guard.
	const maxChars = 20000
	truncated := content
	if len(content) > maxChars {
		truncated = content[:maxChars]
		slog.Warn("content truncated for moderation api",
			slog.Int("original_length", len(content)),
			slog.Int("truncated_length", len(truncated)))
	}

	slog.InfoContext(ctx, "Starting moderation check",
		slog.Int("input_length", text.CountRunes(truncated)))

	start := time.Now()

	resp, err := o.client.Moderations(ctx, openai.ModerationRequest{
		Model: o.config.Model,
		Input: truncated,
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Moderation check failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		metrics.RecordModeration("openai", "error", duration)
		return Verdict{}, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Results) == 0 {
		slog.ErrorContext(ctx, "OpenAI API returned empty response",
			slog.Duration("duration", duration))
		metrics.RecordModeration("openai", "error", duration)
		return Verdict{}, fmt.Errorf("openai api returned empty response")
	}

	verdict := o.scoreVerdict(resp.Results[0].CategoryScores)

	result := "safe"
	if !verdict.Safe {
		result = "unsafe"
	}

	slog.InfoContext(ctx, "Moderation check completed",
		slog.String("result", result),
		slog.Duration("duration", duration))

	metrics.RecordModeration("openai", result, duration)

	return verdict, nil
}

// scoreVerdict compares per-category scores against the configured
// thresholds. When multiple categories exceed their cutoff, the one with
// the largest margin names the rejection.
func (o *OpenAI) scoreVerdict(scores openai.ResultCategoryScores) Verdict {
	t := o.config.Thresholds

	categories := []struct {
		name      string
		score     float32
		threshold float32
	}{
		{"hate", scores.Hate, t.Hate},
		{"hate/threatening", scores.HateThreatening, t.HateThreatening},
		{"harassment", scores.Harassment, t.Harassment},
		{"harassment/threatening", scores.HarassmentThreatening, t.HarassmentThreatening},
		{"self-harm", scores.SelfHarm, t.SelfHarm},
		{"self-harm/intent", scores.SelfHarmIntent, t.SelfHarmIntent},
		{"self-harm/instructions", scores.SelfHarmInstructions, t.SelfHarmInstructions},
		{"sexual", scores.Sexual, t.Sexual},
		{"sexual/minors", scores.SexualMinors, t.SexualMinors},
		{"violence", scores.Violence, t.Violence},
		{"violence/graphic", scores.ViolenceGraphic, t.ViolenceGraphic},
	}

	worstName := ""
	var worstMargin float32
	for _, c := range categories {
		margin := c.score - c.threshold
		if margin >= 0 && (worstName == "" || margin > worstMargin) {
			worstName = c.name
			worstMargin = margin
		}
	}

	if worstName == "" {
		return Verdict{Safe: true}
	}

	return Verdict{
		Safe:        false,
		Explanation: fmt.Sprintf(openAIUnsafeExplanationFormat, worstName),
	}
}
