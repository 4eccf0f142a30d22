// Package article exposes read endpoints for published articles.
package article

import (
	"errors"
	"net/http"
	"time"

	"agora-forum/internal/domain/entity"
	"agora-forum/internal/handler/http/respond"
	"agora-forum/internal/repository"
)

// articleDTO is the wire shape of a published article.
type articleDTO struct {
	ID                string    `json:"id"`
	Slug              string    `json:"slug"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	AuthorDisplayName string    `json:"author_display_name"`
	Upvotes           int64     `json:"upvotes"`
	Downvotes         int64     `json:"downvotes"`
	CreatedAt         time.Time `json:"created_at"`
}

// toDTO converts an entity. The author's account id stays server-side: for
// an anonymous forum, exposing it would link articles across one author's
// submissions.
func toDTO(a *entity.Article) articleDTO {
	return articleDTO{
		ID:                a.ID,
		Slug:              a.Slug,
		Title:             a.Title,
		Content:           a.Content,
		AuthorDisplayName: a.AuthorDisplayName,
		Upvotes:           a.Upvotes,
		Downvotes:         a.Downvotes,
		CreatedAt:         a.CreatedAt,
	}
}

// ListHandler returns all articles, newest first.
type ListHandler struct{ Repo repository.ArticleRepository }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	articles, err := h.Repo.List(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError,
			errors.New("A database error occurred."))
		return
	}

	out := make([]articleDTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, toDTO(a))
	}
	respond.JSON(w, http.StatusOK, out)
}

// GetHandler returns a single article by slug.
type GetHandler struct{ Repo repository.ArticleRepository }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("slug is required"))
		return
	}

	a, err := h.Repo.GetBySlug(r.Context(), slug)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError,
			errors.New("A database error occurred."))
		return
	}
	if a == nil {
		respond.SafeError(w, http.StatusNotFound, errors.New("article not found"))
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(a))
}

// Register registers the article read endpoints with the given mux.
func Register(mux *http.ServeMux, repo repository.ArticleRepository) {
	mux.Handle("GET /api/articles", ListHandler{Repo: repo})
	mux.Handle("GET /api/articles/{slug}", GetHandler{Repo: repo})
}
