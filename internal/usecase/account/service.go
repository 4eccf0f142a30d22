// Package account implements account lifecycle use cases: author-initiated
// account deletion and the background reaper that clears out abandoned
// ephemeral accounts.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"agora-forum/internal/domain/entity"
	"agora-forum/internal/infra/identity"
	"agora-forum/internal/observability/metrics"
	"agora-forum/internal/repository"
)

// reapConcurrency bounds parallel provider calls during a reaper run. The
// admin rate limiter is the real throttle; this just keeps goroutine count
// sane for large listings.
const reapConcurrency = 4

// IdentityAdmin is the slice of the auth provider the account use cases need.
type IdentityAdmin interface {
	ResolveToken(ctx context.Context, token string) (*entity.Identity, error)
	DeleteUser(ctx context.Context, userID string) error
	ListEphemeralBefore(ctx context.Context, cutoff time.Time) ([]identity.EphemeralAccount, error)
}

// Service provides account management use cases.
type Service struct {
	Repo     repository.ArticleRepository
	Identity IdentityAdmin
}

// DeleteResult reports what an account deletion removed.
type DeleteResult struct {
	AccountID       string
	ArticlesRemoved int64
}

// DeleteAccount removes the token holder's account and every article they
// published. Articles go first: if the provider deletion then fails the
// account survives with no content, which a retry cleans up; the reverse
// order would leave orphaned articles attributed to a dead account.
func (s *Service) DeleteAccount(ctx context.Context, token string) (*DeleteResult, error) {
	author, err := s.Identity.ResolveToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve account: %w", err)
	}

	removed, err := s.Repo.DeleteByAuthor(ctx, author.ID)
	if err != nil {
		slog.ErrorContext(ctx, "article purge failed",
			slog.String("account_id", author.ID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrArticlePurge, err)
	}

	if err := s.Identity.DeleteUser(ctx, author.ID); err != nil {
		slog.ErrorContext(ctx, "account purge failed after article removal",
			slog.String("account_id", author.ID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrAccountPurge, err)
	}

	slog.InfoContext(ctx, "account deleted",
		slog.String("account_id", author.ID),
		slog.Bool("ephemeral", author.Ephemeral),
		slog.Int64("articles_removed", removed))

	return &DeleteResult{AccountID: author.ID, ArticlesRemoved: removed}, nil
}

// ReapReport summarizes one reaper run.
type ReapReport struct {
	Scanned int
	Deleted int
}

// ReapEphemeral deletes ephemeral accounts older than minAge that own no
// articles. Accounts that still own articles are kept so author attribution
// stays resolvable; they become reapable once their articles are deleted.
func (s *Service) ReapEphemeral(ctx context.Context, minAge time.Duration) (ReapReport, error) {
	cutoff := time.Now().Add(-minAge)

	accounts, err := s.Identity.ListEphemeralBefore(ctx, cutoff)
	if err != nil {
		metrics.RecordReaperRun(false, 0)
		return ReapReport{}, fmt.Errorf("list ephemeral accounts: %w", err)
	}

	var deleted atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reapConcurrency)

	for _, acct := range accounts {
		g.Go(func() error {
			count, err := s.Repo.CountByAuthor(gctx, acct.ID)
			if err != nil {
				return fmt.Errorf("count articles for %s: %w", acct.ID, err)
			}
			if count > 0 {
				return nil
			}

			if err := s.Identity.DeleteUser(gctx, acct.ID); err != nil {
				return fmt.Errorf("reap account %s: %w", acct.ID, err)
			}

			deleted.Add(1)
			slog.InfoContext(gctx, "reaped orphaned ephemeral account",
				slog.String("account_id", acct.ID),
				slog.Time("created_at", acct.CreatedAt))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.RecordReaperRun(false, int(deleted.Load()))
		return ReapReport{Scanned: len(accounts), Deleted: int(deleted.Load())}, err
	}

	report := ReapReport{Scanned: len(accounts), Deleted: int(deleted.Load())}
	metrics.RecordReaperRun(true, report.Deleted)

	slog.InfoContext(ctx, "reaper run completed",
		slog.Int("scanned", report.Scanned),
		slog.Int("deleted", report.Deleted))

	return report, nil
}
