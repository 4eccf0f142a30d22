package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agora-forum/internal/domain/entity"
	"agora-forum/internal/observability/metrics"
	"agora-forum/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles
       (id, slug, title, content, author_id, author_display_name, upvotes, downvotes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	start := time.Now()
	_, err := repo.db.ExecContext(ctx, query,
		article.ID, article.Slug, article.Title, article.Content,
		article.AuthorID, article.AuthorDisplayName,
		article.Upvotes, article.Downvotes, article.CreatedAt,
	)
	metrics.RecordDBQuery("article_create", time.Since(start))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrSlugTaken
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	const query = `
SELECT id, slug, title, content, author_id, author_display_name, upvotes, downvotes, created_at
FROM articles
WHERE slug = $1
LIMIT 1`
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
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return &article, nil
}

func (repo *ArticleRepo) List(ctx context.Context) ([]*entity.Article, error) {
	const query = `
SELECT id, slug, title, content, author_id, author_display_name, upvotes, downvotes, created_at
FROM articles
ORDER BY created_at DESC`
	start := time.Now()
	rows, err := repo.db.QueryContext(ctx, query)
	metrics.RecordDBQuery("article_list", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 100)
	for rows.Next() {
		var article entity.Article
		if err := rows.Scan(&article.ID, &article.Slug, &article.Title, &article.Content,
			&article.AuthorID, &article.AuthorDisplayName,
			&article.Upvotes, &article.Downvotes, &article.CreatedAt); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		articles = append(articles, &article)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	const query = `DELETE FROM articles WHERE author_id = $1`
	start := time.Now()
	res, err := repo.db.ExecContext(ctx, query, authorID)
	metrics.RecordDBQuery("article_delete_by_author", time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("DeleteByAuthor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteByAuthor: RowsAffected: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles WHERE author_id = $1`
	start := time.Now()
	var count int64
	err := repo.db.QueryRowContext(ctx, query, authorID).Scan(&count)
	metrics.RecordDBQuery("article_count_by_author", time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("CountByAuthor: %w", err)
	}
	return count, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Detection uses the structured error code rather than message
// matching, so it survives driver message changes and localization.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
