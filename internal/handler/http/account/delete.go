// Package account exposes the account deletion endpoint.
package account

import (
	"errors"
	"net/http"

	"agora-forum/internal/handler/http/auth"
	"agora-forum/internal/handler/http/respond"
	"agora-forum/internal/infra/identity"
	acctUC "agora-forum/internal/usecase/account"
)

// deletedMessage confirms a completed account deletion.
const deletedMessage = "Account and all associated posts have been permanently deleted."

// DeleteHandler removes the token holder's account and all their articles.
type DeleteHandler struct{ Svc *acctUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := auth.BearerToken(r)
	if token == "" {
		respond.Error(w, http.StatusUnauthorized,
			errors.New("Authentication required."))
		return
	}

	if _, err := h.Svc.DeleteAccount(r.Context(), token); err != nil {
		switch {
		case errors.Is(err, identity.ErrAuthFailed):
			respond.Error(w, http.StatusUnauthorized,
				errors.New("Authentication failed. Invalid token."))
		case errors.Is(err, acctUC.ErrArticlePurge):
			respond.SafeErrorV2(w, http.StatusInternalServerError,
				respond.NewAppError(http.StatusInternalServerError,
					"Could not delete user posts. Please try again.", err))
		default:
			respond.SafeErrorV2(w, http.StatusInternalServerError,
				respond.NewAppError(http.StatusInternalServerError,
					"Could not permanently delete your account. Please try again.", err))
		}
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": deletedMessage})
}

// Register registers the account endpoints with the given mux.
func Register(mux *http.ServeMux, svc *acctUC.Service) {
	mux.Handle("POST /api/delete-account", DeleteHandler{Svc: svc})
}
