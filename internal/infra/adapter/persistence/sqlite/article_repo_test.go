package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"agora-forum/internal/domain/entity"
	"agora-forum/internal/infra/db"
	sq "agora-forum/internal/infra/adapter/persistence/sqlite"
	"agora-forum/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.MigrateUp(conn, db.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newArticle(id, slug string) *entity.Article {
	return &entity.Article{
		ID:                id,
		Slug:              slug,
		Title:             "Campus News",
		Content:           "body",
		AuthorID:          "author-1",
		AuthorDisplayName: "anonymous-1a2b3c4d",
		CreatedAt:         time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestArticleRepo_CreateAndGetBySlug(t *testing.T) {
	repo := sq.NewArticleRepo(newTestDB(t))
	ctx := context.Background()

	want := newArticle("id-1", "campus-news")
	if err := repo.Create(ctx, want); err != nil {
		t.Fatalf("Create err=%v", err)
	}

	got, err := repo.GetBySlug(ctx, "campus-news")
	if err != nil {
		t.Fatalf("GetBySlug err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestArticleRepo_GetBySlug_NotFound(t *testing.T) {
	repo := sq.NewArticleRepo(newTestDB(t))

	got, err := repo.GetBySlug(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetBySlug err=%v", err)
	}
	if got != nil {
		t.Fatalf("want nil, got %+v", got)
	}
}

func TestArticleRepo_Create_SlugConflict(t *testing.T) {
	repo := sq.NewArticleRepo(newTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, newArticle("id-1", "dup")); err != nil {
		t.Fatalf("first Create err=%v", err)
	}

	err := repo.Create(ctx, newArticle("id-2", "dup"))
	if !errors.Is(err, repository.ErrSlugTaken) {
		t.Fatalf("want ErrSlugTaken, got %v", err)
	}
}

func TestArticleRepo_List_NewestFirst(t *testing.T) {
	conn := newTestDB(t)
	repo := sq.NewArticleRepo(conn)
	ctx := context.Background()

	older := newArticle("id-1", "older")
	older.CreatedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := newArticle("id-2", "newer")
	newer.CreatedAt = time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)

	if err := repo.Create(ctx, older); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := repo.Create(ctx, newer); err != nil {
		t.Fatalf("Create err=%v", err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 articles, got %d", len(got))
	}
	if got[0].Slug != "newer" || got[1].Slug != "older" {
		t.Fatalf("wrong order: %s, %s", got[0].Slug, got[1].Slug)
	}
}

func TestArticleRepo_DeleteByAuthor(t *testing.T) {
	repo := sq.NewArticleRepo(newTestDB(t))
	ctx := context.Background()

	a := newArticle("id-1", "one")
	b := newArticle("id-2", "two")
	other := newArticle("id-3", "three")
	other.AuthorID = "author-2"

	for _, art := range []*entity.Article{a, b, other} {
		if err := repo.Create(ctx, art); err != nil {
			t.Fatalf("Create err=%v", err)
		}
	}

	n, err := repo.DeleteByAuthor(ctx, "author-1")
	if err != nil {
		t.Fatalf("DeleteByAuthor err=%v", err)
	}
	if n != 2 {
		t.Fatalf("want 2 rows removed, got %d", n)
	}

	remaining, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(remaining) != 1 || remaining[0].AuthorID != "author-2" {
		t.Fatalf("unexpected remaining articles: %+v", remaining)
	}
}

func TestArticleRepo_CountByAuthor(t *testing.T) {
	repo := sq.NewArticleRepo(newTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, newArticle("id-1", "one")); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := repo.Create(ctx, newArticle("id-2", "two")); err != nil {
		t.Fatalf("Create err=%v", err)
	}

	n, err := repo.CountByAuthor(ctx, "author-1")
	if err != nil {
		t.Fatalf("CountByAuthor err=%v", err)
	}
	if n != 2 {
		t.Fatalf("want 2, got %d", n)
	}

	n, err = repo.CountByAuthor(ctx, "nobody")
	if err != nil {
		t.Fatalf("CountByAuthor err=%v", err)
	}
	if n != 0 {
		t.Fatalf("want 0, got %d", n)
	}
}
