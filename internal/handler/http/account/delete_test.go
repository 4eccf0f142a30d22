package account_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agora-forum/internal/domain/entity"
	"agora-forum/internal/handler/http/account"
	"agora-forum/internal/infra/identity"
	acctUC "agora-forum/internal/usecase/account"
)

type stubRepo struct {
	articles  map[string]string // slug -> author id
	deleteErr error
}

func (s *stubRepo) Create(_ context.Context, _ *entity.Article) error { return nil }

func (s *stubRepo) GetBySlug(_ context.Context, _ string) (*entity.Article, error) {
	return nil, nil
}

func (s *stubRepo) List(_ context.Context) ([]*entity.Article, error) { return nil, nil }

func (s *stubRepo) DeleteByAuthor(_ context.Context, authorID string) (int64, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	var n int64
	for slug, owner := range s.articles {
		if owner == authorID {
			delete(s.articles, slug)
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) CountByAuthor(_ context.Context, _ string) (int64, error) { return 0, nil }

type stubIdentity struct {
	resolved   *entity.Identity
	resolveErr error
	deleteErr  error
	deleted    []string
}

func (s *stubIdentity) ResolveToken(_ context.Context, token string) (*entity.Identity, error) {
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	if s.resolved != nil && token == "valid-token" {
		return s.resolved, nil
	}
	return nil, identity.ErrAuthFailed
}

func (s *stubIdentity) DeleteUser(_ context.Context, userID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, userID)
	return nil
}

func (s *stubIdentity) ListEphemeralBefore(_ context.Context, _ time.Time) ([]identity.EphemeralAccount, error) {
	return nil, nil
}

func newHandler(repo *stubRepo, ids *stubIdentity) account.DeleteHandler {
	return account.DeleteHandler{Svc: &acctUC.Service{Repo: repo, Identity: ids}}
}

func deleteRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/delete-account", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body %q: %v", rr.Body.String(), err)
	}
	return body.Error
}

func TestDeleteHandler_Success(t *testing.T) {
	repo := &stubRepo{articles: map[string]string{
		"my-post":     "acct-alice",
		"other-post":  "acct-bob",
		"second-post": "acct-alice",
	}}
	ids := &stubIdentity{resolved: &entity.Identity{ID: "acct-alice", DisplayName: "alice"}}
	handler := newHandler(repo, ids)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, deleteRequest("valid-token"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Message != "Account and all associated posts have been permanently deleted." {
		t.Errorf("message = %q", resp.Message)
	}

	if len(ids.deleted) != 1 || ids.deleted[0] != "acct-alice" {
		t.Errorf("deleted accounts = %v, want [acct-alice]", ids.deleted)
	}
	if _, remains := repo.articles["other-post"]; !remains {
		t.Error("Another author's article was removed")
	}
	if len(repo.articles) != 1 {
		t.Errorf("repo holds %d articles, want 1", len(repo.articles))
	}
}

func TestDeleteHandler_MissingToken(t *testing.T) {
	handler := newHandler(&stubRepo{}, &stubIdentity{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, deleteRequest(""))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if got := errorMessage(t, rr); got != "Authentication required." {
		t.Errorf("error = %q", got)
	}
}

func TestDeleteHandler_InvalidToken(t *testing.T) {
	handler := newHandler(&stubRepo{}, &stubIdentity{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, deleteRequest("bogus-token"))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if got := errorMessage(t, rr); got != "Authentication failed. Invalid token." {
		t.Errorf("error = %q", got)
	}
}

func TestDeleteHandler_ProviderOutage(t *testing.T) {
	// A provider outage during token exchange reads the same as a rejected
	// token from here: 401, not an account-deletion failure.
	ids := &stubIdentity{resolveErr: fmt.Errorf("%w: token exchange: %w",
		identity.ErrAuthFailed, errors.New("auth provider request: connection refused"))}
	handler := newHandler(&stubRepo{}, ids)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, deleteRequest("valid-token"))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if got := errorMessage(t, rr); got != "Authentication failed. Invalid token." {
		t.Errorf("error = %q", got)
	}
}

func TestDeleteHandler_ArticlePurgeFailure(t *testing.T) {
	repo := &stubRepo{deleteErr: errors.New("connection reset")}
	ids := &stubIdentity{resolved: &entity.Identity{ID: "acct-alice"}}
	handler := newHandler(repo, ids)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, deleteRequest("valid-token"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if got := errorMessage(t, rr); got != "Could not delete user posts. Please try again." {
		t.Errorf("error = %q", got)
	}
	if len(ids.deleted) != 0 {
		t.Error("Account must survive when its articles could not be removed")
	}
}

func TestDeleteHandler_AccountPurgeFailure(t *testing.T) {
	repo := &stubRepo{articles: map[string]string{"my-post": "acct-alice"}}
	ids := &stubIdentity{
		resolved:  &entity.Identity{ID: "acct-alice"},
		deleteErr: errors.New("provider 500"),
	}
	handler := newHandler(repo, ids)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, deleteRequest("valid-token"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if got := errorMessage(t, rr); got != "Could not permanently delete your account. Please try again." {
		t.Errorf("error = %q", got)
	}
}
