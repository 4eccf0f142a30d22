package entity

import (
	"fmt"

	"agora-forum/internal/utils/text"
)

// Word-count bounds for article content. Submissions outside the range are
// rejected before any external call is made.
const (
	MinWordCount = 250
	MaxWordCount = 2500
)

// MaxTitleLength caps title length to keep slugs and denormalized columns sane.
const MaxTitleLength = 300

// ValidateTitle checks that an article title is present and within bounds.
// Returns a ValidationError describing the first failed check.
func ValidateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if len(title) > MaxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must not exceed %d characters", MaxTitleLength),
		}
	}
	return nil
}

// ValidateContent checks that article content is present and that its
// whitespace-delimited word count falls within [MinWordCount, MaxWordCount].
func ValidateContent(content string) error {
	if content == "" {
		return &ValidationError{Field: "content", Message: "is required"}
	}
	wc := text.CountWords(content)
	if wc < MinWordCount || wc > MaxWordCount {
		return &ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("must be between %d and %d words", MinWordCount, MaxWordCount),
		}
	}
	return nil
}
