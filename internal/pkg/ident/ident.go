// Package ident provides identifier generation utilities: random hex tokens,
// URL slugs derived from titles, and opaque article IDs.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// RandomHex returns n random bytes hex-encoded (2n characters).
// It panics only if the system entropy source is unreadable, which is treated
// as unrecoverable.
func RandomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("ident: reading random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// NewArticleID returns a new opaque article identifier (UUID v4).
func NewArticleID() string {
	return uuid.New().String()
}

// Slugify derives a URL-safe slug from a title: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, no leading or
// trailing hyphens. Two titles that differ only in case, punctuation, or
// spacing slugify identically; the resulting storage conflict is surfaced to
// the caller as a uniqueness violation, not prevented here.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
