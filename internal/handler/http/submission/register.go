package submission

import (
	"net/http"

	subUC "agora-forum/internal/usecase/submission"
)

// Register registers the submission endpoints with the given mux.
func Register(mux *http.ServeMux, svc *subUC.Service, gate Gate) {
	mux.Handle("POST /api/submit", AuthenticatedHandler{Svc: svc, Gate: gate})
	mux.Handle("POST /api/submit-anonymous", AnonymousHandler{Svc: svc, Gate: gate})
}
