package submission

import (
	"errors"
	"net/http"

	"agora-forum/internal/handler/http/auth"
	"agora-forum/internal/handler/http/respond"
	"agora-forum/internal/infra/identity"
	subUC "agora-forum/internal/usecase/submission"
)

// AuthenticatedHandler accepts form-encoded submissions from signed-in
// authors, attributing the article to the account behind the bearer token.
type AuthenticatedHandler struct {
	Svc  *subUC.Service
	Gate Gate
}

func (h AuthenticatedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")
	if !h.Gate.allow(w, r, title, content) {
		return
	}

	token := auth.BearerToken(r)
	if token == "" {
		respond.Error(w, http.StatusUnauthorized,
			errors.New("Authentication required."))
		return
	}

	result, err := h.Svc.SubmitAuthenticated(r.Context(), token, title, content)
	if err != nil {
		if errors.Is(err, identity.ErrAuthFailed) {
			respond.Error(w, http.StatusUnauthorized,
				errors.New("Authentication failed. Please sign in again."))
			return
		}
		writeSubmitError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, submitResponse{
		Slug:          result.Article.Slug,
		AIExplanation: result.AIExplanation,
	})
}
