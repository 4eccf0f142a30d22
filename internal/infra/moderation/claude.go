package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"agora-forum/internal/observability/metrics"
	"agora-forum/internal/resilience/circuitbreaker"
	"agora-forum/internal/resilience/retry"
	"agora-forum/internal/utils/text"
)

// ClaudeConfig holds configuration parameters for the Claude moderator.
type ClaudeConfig struct {
	// Model is the Claude API model identifier used for moderation.
	// Loaded from MODERATION_MODEL, defaulting to a current Haiku model:
	// moderation is a classification task and does not need a large model.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	// The verdict format is two short lines, so this stays small.
	MaxTokens int

	// Timeout is the maximum duration for a single moderation API call.
	Timeout time.Duration
}

// LoadClaudeConfig loads configuration from environment variables.
//
// Environment variables:
//   - MODERATION_MODEL: Claude model identifier (default: claude-3-5-haiku)
func LoadClaudeConfig() ClaudeConfig {
	model := string(anthropic.ModelClaude3_5HaikuLatest)
	if envModel := os.Getenv("MODERATION_MODEL"); envModel != "" {
		model = envModel
	}

	return ClaudeConfig{
		Model:     model,
		MaxTokens: 128,
		Timeout:   30 * time.Second,
	}
}

// Claude implements the Moderator interface using Anthropic's Claude API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         ClaudeConfig
}

// NewClaude creates a new Claude moderator with the given API key.
// It automatically configures circuit breaker and retry logic.
func NewClaude(apiKey string) *Claude {
	config := LoadClaudeConfig()

	slog.Info("Initialized Claude moderator with configuration",
		slog.String("model", config.Model),
		slog.Duration("timeout", config.Timeout))

	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ModerationAPIConfig()),
		retryConfig:    retry.ModerationAPIConfig(),
		config:         config,
	}
}

// Breaker exposes the circuit breaker guarding the Claude API for health reporting.
func (c *Claude) Breaker() *circuitbreaker.CircuitBreaker {
	return c.circuitBreaker
}

// Check moderates the given content using Claude.
// It uses circuit breaker and retry logic for improved reliability.
// A returned error means the check could not be completed; it never means
// the content was rejected.
func (c *Claude) Check(ctx context.Context, content string) (Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var result Verdict

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doCheck(ctx, content)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("moderation api circuit breaker open, request rejected",
					slog.String("service", "moderation-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("moderation api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(Verdict)
		return nil
	})

	if retryErr != nil {
		return Verdict{}, fmt.Errorf("claude moderation failed after retries: %w", retryErr)
	}

	return result, nil
}

// doCheck performs the actual API call without retry or circuit breaker.
func (c *Claude) doCheck(ctx context.Context, content string) (Verdict, error) {
	requestID := uuid.New().String()

	// Truncate to avoid token limits. The submission gate caps articles at
	// 2500 words, so this only triggers on input that bypassed validation.
	const maxChars = 20000
	truncated := content
	if len(content) > maxChars {
		truncated = content[:maxChars]
		slog.Warn("content truncated for moderation api",
			slog.String("request_id", requestID),
			slog.Int("original_length", len(content)),
			slog.Int("truncated_length", len(truncated)))
	}

	prompt := buildModerationPrompt(truncated)

	slog.InfoContext(ctx, "Starting moderation check",
		slog.String("request_id", requestID),
		slog.Int("input_length", text.CountRunes(truncated)))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Moderation check failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		metrics.RecordModeration("claude", "error", duration)
		return Verdict{}, fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		slog.ErrorContext(ctx, "Claude API returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		metrics.RecordModeration("claude", "error", duration)
		return Verdict{}, fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		slog.ErrorContext(ctx, "Claude API returned unexpected response type",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		metrics.RecordModeration("claude", "error", duration)
		return Verdict{}, fmt.Errorf("claude api returned unexpected response type")
	}

	verdict := parseVerdict(textBlock.Text)

	result := "safe"
	if !verdict.Safe {
		result = "unsafe"
	}

	slog.InfoContext(ctx, "Moderation check completed",
		slog.String("request_id", requestID),
		slog.String("result", result),
		slog.Duration("duration", duration))

	metrics.RecordModeration("claude", result, duration)

	return verdict, nil
}
