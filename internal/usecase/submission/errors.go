package submission

import (
	"errors"
	"fmt"
)

// ErrIdentityProvision indicates that the auth provider could not create the
// ephemeral account for an anonymous submission. Terminal for the request.
var ErrIdentityProvision = errors.New("could not provision author account")

// UnsafeContentError indicates that the moderator rejected the content.
// Explanation is author-facing and safe to return verbatim.
type UnsafeContentError struct {
	Explanation string
}

// Error returns a formatted error message for the rejection.
func (e *UnsafeContentError) Error() string {
	return fmt.Sprintf("content rejected by moderator: %s", e.Explanation)
}
