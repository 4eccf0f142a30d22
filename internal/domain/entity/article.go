// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article and Identity, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// Article represents a published forum article.
// The slug is derived from the title and is globally unique; uniqueness is
// enforced by the storage layer, not by the application. Vote counters are
// persisted here but never mutated by the submission pipeline.
type Article struct {
	ID                string
	Slug              string
	Title             string
	Content           string
	AuthorID          string
	AuthorDisplayName string
	Upvotes           int64
	Downvotes         int64
	CreatedAt         time.Time
}
