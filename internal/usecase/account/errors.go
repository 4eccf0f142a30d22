package account

import "errors"

// Sentinel errors distinguishing which half of an account deletion failed,
// so the handler can tell the user what to retry.
var (
	// ErrArticlePurge indicates the account's articles could not be removed;
	// nothing was deleted.
	ErrArticlePurge = errors.New("could not delete account articles")

	// ErrAccountPurge indicates the articles are gone but the auth provider
	// failed to delete the account itself.
	ErrAccountPurge = errors.New("could not delete account")
)
