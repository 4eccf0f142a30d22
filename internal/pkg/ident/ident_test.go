package ident_test

import (
	"regexp"
	"testing"

	"agora-forum/internal/pkg/ident"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple title", title: "Hello World", want: "hello-world"},
		{name: "punctuation collapsed", title: "What's new, today?", want: "what-s-new-today"},
		{name: "repeated separators", title: "a -- b", want: "a-b"},
		{name: "leading and trailing junk", title: "  ...Big News!  ", want: "big-news"},
		{name: "digits preserved", title: "Go 1.24 released", want: "go-1-24-released"},
		{name: "already a slug", title: "already-a-slug", want: "already-a-slug"},
		{name: "empty", title: "", want: ""},
		{name: "only punctuation", title: "?!?", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ident.Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

// Titles that differ only in case or punctuation must collide, since the
// uniqueness conflict is handled by storage rather than here.
func TestSlugify_CollidingTitles(t *testing.T) {
	a := ident.Slugify("My Great Article")
	b := ident.Slugify("my... great? ARTICLE")
	if a != b {
		t.Errorf("expected identical slugs, got %q and %q", a, b)
	}
}

func TestRandomHex(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]+$`)

	got := ident.RandomHex(4)
	if len(got) != 8 {
		t.Fatalf("RandomHex(4) length = %d, want 8", len(got))
	}
	if !hexPattern.MatchString(got) {
		t.Errorf("RandomHex(4) = %q, want lowercase hex", got)
	}

	// Two draws colliding would indicate a broken entropy source.
	if ident.RandomHex(16) == ident.RandomHex(16) {
		t.Error("two RandomHex(16) draws returned the same value")
	}
}

func TestNewArticleID(t *testing.T) {
	uuidPattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	id := ident.NewArticleID()
	if !uuidPattern.MatchString(id) {
		t.Errorf("NewArticleID() = %q, not a UUID", id)
	}
}
