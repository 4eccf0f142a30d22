// Package submission implements the article submission pipeline: moderation,
// author resolution, and persistence. The HTTP gate has already validated
// the request by the time a service method runs.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agora-forum/internal/domain/entity"
	"agora-forum/internal/infra/moderation"
	"agora-forum/internal/observability/metrics"
	"agora-forum/internal/pkg/ident"
	"agora-forum/internal/repository"
)

// failOpenExplanation is the aiExplanation surfaced when the moderation
// provider could not complete a check. Moderation is best-effort: provider
// outages must never block publication.
const failOpenExplanation = "AI check failed to complete; post was allowed."

// IdentityProvider resolves and provisions article authors.
type IdentityProvider interface {
	// ResolveToken maps a bearer token to an existing account.
	ResolveToken(ctx context.Context, token string) (*entity.Identity, error)
	// CreateEphemeral provisions a throwaway account for one anonymous
	// submission.
	CreateEphemeral(ctx context.Context) (*entity.Identity, error)
}

// Service provides the article submission use cases.
type Service struct {
	Repo      repository.ArticleRepository
	Moderator moderation.Moderator
	Identity  IdentityProvider
}

// Result is a successful submission outcome.
type Result struct {
	Article *entity.Article

	// AIExplanation is empty when the moderator checked and approved the
	// content; otherwise it tells the author that no check happened.
	AIExplanation string
}

// SubmitAnonymous moderates the content and publishes it under a freshly
// minted ephemeral account. The account is created only after the content
// passes moderation so rejected submissions leave nothing behind.
//
// Returns *UnsafeContentError when the moderator rejects the content and
// repository.ErrSlugTaken when the title collides with an existing article.
func (s *Service) SubmitAnonymous(ctx context.Context, title, content string) (*Result, error) {
	verdict, aiExplanation := s.moderate(ctx, title, content)
	if !verdict.Safe {
		metrics.RecordSubmission("anonymous", "rejected_unsafe")
		return nil, &UnsafeContentError{Explanation: verdict.Explanation}
	}

	author, err := s.Identity.CreateEphemeral(ctx)
	if err != nil {
		metrics.RecordSubmission("anonymous", "error")
		slog.ErrorContext(ctx, "ephemeral account provisioning failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrIdentityProvision, err)
	}

	article, err := s.persist(ctx, title, content, author)
	if err != nil {
		metrics.RecordSubmission("anonymous", outcomeForError(err))
		return nil, err
	}

	metrics.RecordSubmission("anonymous", "published")
	return &Result{Article: article, AIExplanation: aiExplanation}, nil
}

// SubmitAuthenticated resolves the bearer token and publishes the content
// under the resolved account. The token is resolved before moderation so an
// invalid session never consumes a moderation call.
//
// Returns identity.ErrAuthFailed (wrapped) for unusable tokens,
// *UnsafeContentError for rejected content, and repository.ErrSlugTaken for
// title collisions.
func (s *Service) SubmitAuthenticated(ctx context.Context, token, title, content string) (*Result, error) {
	author, err := s.Identity.ResolveToken(ctx, token)
	if err != nil {
		metrics.RecordSubmission("authenticated", "auth_failed")
		return nil, fmt.Errorf("resolve author: %w", err)
	}

	verdict, aiExplanation := s.moderate(ctx, title, content)
	if !verdict.Safe {
		metrics.RecordSubmission("authenticated", "rejected_unsafe")
		return nil, &UnsafeContentError{Explanation: verdict.Explanation}
	}

	article, err := s.persist(ctx, title, content, author)
	if err != nil {
		metrics.RecordSubmission("authenticated", outcomeForError(err))
		return nil, err
	}

	metrics.RecordSubmission("authenticated", "published")
	return &Result{Article: article, AIExplanation: aiExplanation}, nil
}

// moderate runs the content check and applies the fail-open policy: on
// provider failure the verdict becomes safe and the author is told the
// check did not complete. Title and content are checked together since a
// hostile title on clean content is still a rejection.
func (s *Service) moderate(ctx context.Context, title, content string) (moderation.Verdict, string) {
	verdict, err := s.Moderator.Check(ctx, fmt.Sprintf("Title: %s. Content: %s", title, content))
	if err != nil {
		slog.WarnContext(ctx, "moderation check failed, allowing content",
			slog.String("error", err.Error()))
		return moderation.Verdict{Safe: true}, failOpenExplanation
	}
	if verdict.Safe {
		return verdict, verdict.Explanation
	}
	return verdict, ""
}

// persist builds the article and stores it. Slug collisions pass through
// as repository.ErrSlugTaken.
func (s *Service) persist(ctx context.Context, title, content string, author *entity.Identity) (*entity.Article, error) {
	article := &entity.Article{
		ID:                ident.NewArticleID(),
		Slug:              ident.Slugify(title),
		Title:             strings.TrimSpace(title),
		Content:           content,
		AuthorID:          author.ID,
		AuthorDisplayName: author.DisplayName,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	return article, nil
}

func outcomeForError(err error) string {
	if errors.Is(err, repository.ErrSlugTaken) {
		return "slug_conflict"
	}
	return "error"
}
