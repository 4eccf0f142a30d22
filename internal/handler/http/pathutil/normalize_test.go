package pathutil

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "article slug",
			path: "/api/articles/campus-news",
			want: "/api/articles/:slug",
		},
		{
			name: "another article slug",
			path: "/api/articles/spring-festival-2026",
			want: "/api/articles/:slug",
		},
		{
			name: "article list unchanged",
			path: "/api/articles",
			want: "/api/articles",
		},
		{
			name: "submit unchanged",
			path: "/api/submit",
			want: "/api/submit",
		},
		{
			name: "anonymous submit unchanged",
			path: "/api/submit-anonymous",
			want: "/api/submit-anonymous",
		},
		{
			name: "delete account unchanged",
			path: "/api/delete-account",
			want: "/api/delete-account",
		},
		{
			name: "health unchanged",
			path: "/health",
			want: "/health",
		},
		{
			name: "metrics unchanged",
			path: "/metrics",
			want: "/metrics",
		},
		{
			name: "query parameters stripped",
			path: "/api/articles/campus-news?ref=home",
			want: "/api/articles/:slug",
		},
		{
			name: "trailing slash stripped",
			path: "/api/articles/campus-news/",
			want: "/api/articles/:slug",
		},
		{
			name: "root path",
			path: "/",
			want: "/",
		},
		{
			name: "unknown path unchanged",
			path: "/unknown/path/123",
			want: "/unknown/path/123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePath(tt.path)
			if got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
