// Package pathutil provides URL path helpers for the HTTP layer.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
// Pre-compiled at initialization.
var pathPatterns = []*PathPattern{
	// Article detail routes keyed by slug
	{Pattern: regexp.MustCompile(`^/api/articles/[^/]+$`), Template: "/api/articles/:slug"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths with slugs (e.g., /api/articles/campus-news) to template format
// (e.g., /api/articles/:slug). Static paths remain unchanged.
//
// Examples:
//
//	NormalizePath("/api/articles/campus-news")  // "/api/articles/:slug"
//	NormalizePath("/api/articles")              // "/api/articles" (unchanged)
//	NormalizePath("/api/submit")                // "/api/submit" (unchanged)
//	NormalizePath("/health")                    // "/health" (unchanged)
//
// Query parameters and trailing slashes are handled:
//
//	NormalizePath("/api/articles/campus-news?ref=home")  // "/api/articles/:slug"
//	NormalizePath("/api/articles/campus-news/")          // "/api/articles/:slug"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// No match found, return original path. Static paths like /health,
	// /metrics and /api/submit pass through unchanged.
	return path
}
