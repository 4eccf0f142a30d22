package submission

import (
	"errors"
	"net/http"
	"time"

	"agora-forum/internal/handler/http/respond"
	"agora-forum/internal/repository"
	subUC "agora-forum/internal/usecase/submission"
)

// AnonymousHandler accepts form-encoded submissions with no credentials and
// publishes them under a freshly minted ephemeral account.
type AnonymousHandler struct {
	Svc  *subUC.Service
	Gate Gate
}

func (h AnonymousHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	// Anti-bot signals run before everything else so scripted clients
	// never reach a network call.
	if rejectBot(w, r, time.Now()) {
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")
	if !h.Gate.allow(w, r, title, content) {
		return
	}

	result, err := h.Svc.SubmitAnonymous(r.Context(), title, content)
	if err != nil {
		writeSubmitError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, submitResponse{
		Slug:          result.Article.Slug,
		AIExplanation: result.AIExplanation,
	})
}

// writeSubmitError maps pipeline failures to their canonical responses.
// Internal detail is logged upstream; only fixed messages leave the server.
func writeSubmitError(w http.ResponseWriter, err error) {
	var unsafeErr *subUC.UnsafeContentError
	switch {
	case errors.As(err, &unsafeErr):
		respond.Error(w, http.StatusBadRequest, errors.New(unsafeErr.Explanation))
	case errors.Is(err, repository.ErrSlugTaken):
		respond.Error(w, http.StatusConflict,
			errors.New("An article with this title already exists."))
	case errors.Is(err, subUC.ErrIdentityProvision):
		respond.Error(w, http.StatusInternalServerError,
			errors.New("Could not create a temporary user."))
	default:
		respond.Error(w, http.StatusInternalServerError,
			errors.New("A database error occurred."))
	}
}
