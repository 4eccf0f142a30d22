// Package repository defines persistence interfaces and the storage-level
// errors that the rest of the application branches on.
package repository

import (
	"context"
	"errors"

	"agora-forum/internal/domain/entity"
)

// ErrSlugTaken indicates that an article with the same slug already exists.
// Both persistence adapters translate their driver's uniqueness violation on
// the slug column into this error; callers must treat it as an expected,
// recoverable condition rather than a storage failure.
var ErrSlugTaken = errors.New("article with this slug already exists")

// ArticleRepository is the persistence boundary for articles.
type ArticleRepository interface {
	// Create inserts one article row. Returns ErrSlugTaken when the slug
	// collides with an existing row; any other error is a storage failure.
	Create(ctx context.Context, article *entity.Article) error
	// GetBySlug returns the article with the given slug, or (nil, nil) if
	// no such article exists.
	GetBySlug(ctx context.Context, slug string) (*entity.Article, error)
	// List retrieves all articles ordered by creation time, newest first.
	List(ctx context.Context) ([]*entity.Article, error)
	// DeleteByAuthor removes every article owned by the given author and
	// reports how many rows were removed.
	DeleteByAuthor(ctx context.Context, authorID string) (int64, error)
	// CountByAuthor returns the number of articles owned by the given author.
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}
