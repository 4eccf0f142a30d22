// Package sqlite provides a SQLite implementation of the article repository.
// It is used for local development and self-hosted single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"agora-forum/internal/domain/entity"
	"agora-forum/internal/observability/metrics"
	"agora-forum/internal/repository"
)

// slugConflictMarker is the fragment modernc.org/sqlite produces when the
// slug unique constraint is violated. SQLite exposes no structured error
// code through database/sql, so message matching is the only signal; it is
// isolated here so the rest of the code never string-matches errors.
const slugConflictMarker = "UNIQUE constraint failed: articles.slug"

// ArticleRepo implements the ArticleRepository interface using SQLite.
type ArticleRepo struct{ db *sql.DB }

// NewArticleRepo creates a new SQLite-backed article repository.
func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

// Create inserts a new article. A duplicate slug maps to repository.ErrSlugTaken.
func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles
       (id, slug, title, content, author_id, author_display_name, upvotes, downvotes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	start := time.Now()
	_, err := repo.db.ExecContext(ctx, query,
		article.ID, article.Slug, article.Title, article.Content,
		article.AuthorID, article.AuthorDisplayName,
		article.Upvotes, article.Downvotes, article.CreatedAt,
	)
	metrics.RecordDBQuery("article_create", time.Since(start))
	if err != nil {
		if isSlugConflict(err) {
			return repository.ErrSlugTaken
		}
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	return nil
}

// GetBySlug retrieves an article by its slug. Returns (nil, nil) when absent.
func (repo *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	const query = `
SELECT id, slug, title, content, author_id, author_display_name, upvotes, downvotes, created_at
FROM articles
WHERE slug = ?
LIMIT 1
`
	start := time.Now()
	var article entity.Article
	err := repo.db.QueryRowContext(ctx, query, slug).
		Scan(&article.ID, &article.Slug, &article.Title, &article.Content,
			&article.AuthorID, &article.AuthorDisplayName,
			&article.Upvotes, &article.Downvotes, &article.CreatedAt)
	metrics.RecordDBQuery("article_get_by_slug", time.Since(start))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: Scan: %w", err)
	}
	return &article, nil
}

// List retrieves all articles ordered by creation date (newest first).
func (repo *ArticleRepo) List(ctx context.Context) ([]*entity.Article, error) {
	const query = `
SELECT id, slug, title, content, author_id, author_display_name, upvotes, downvotes, created_at
FROM articles
ORDER BY created_at DESC
`
	start := time.Now()
	rows, err := repo.db.QueryContext(ctx, query)
	metrics.RecordDBQuery("article_list", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 100)
	for rows.Next() {
		var article entity.Article
		err := rows.Scan(&article.ID, &article.Slug,
			&article.Title, &article.Content,
			&article.AuthorID, &article.AuthorDisplayName,
			&article.Upvotes, &article.Downvotes, &article.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		articles = append(articles, &article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}

	return articles, nil
}

// DeleteByAuthor removes every article owned by the given author and
// returns the number of rows removed.
func (repo *ArticleRepo) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	const query = `DELETE FROM articles WHERE author_id = ?`
	start := time.Now()
	res, err := repo.db.ExecContext(ctx, query, authorID)
	metrics.RecordDBQuery("article_delete_by_author", time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("DeleteByAuthor: ExecContext: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteByAuthor: RowsAffected: %w", err)
	}
	return n, nil
}

// CountByAuthor returns the number of articles owned by the given author.
func (repo *ArticleRepo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles WHERE author_id = ?`
	start := time.Now()
	var count int64
	err := repo.db.QueryRowContext(ctx, query, authorID).Scan(&count)
	metrics.RecordDBQuery("article_count_by_author", time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("CountByAuthor: Scan: %w", err)
	}
	return count, nil
}

// isSlugConflict reports whether err is a slug unique constraint violation.
func isSlugConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), slugConflictMarker)
}
