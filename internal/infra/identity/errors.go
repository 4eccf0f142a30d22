package identity

import "errors"

// ErrAuthFailed indicates that a bearer token could not be resolved to an
// account: it is expired, malformed, or rejected by the auth provider.
// Handlers translate it to a 401 without exposing the underlying cause.
var ErrAuthFailed = errors.New("authentication failed")
