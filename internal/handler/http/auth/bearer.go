// Package auth provides request credential helpers for the HTTP handlers.
// Token verification itself lives with the auth provider; handlers only
// extract and forward credentials.
package auth

import (
	"net/http"
	"strings"
)

// BearerToken extracts the token from the Authorization header. Returns an
// empty string when the header is missing or not a Bearer credential.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
