// Package text provides utilities for text processing and analysis.
// This package includes reusable functions for word and character counting
// that are shared between validation and moderation code paths.
package text

import "strings"

// CountWords counts whitespace-delimited words in the given text.
// Any run of Unicode whitespace separates words; leading and trailing
// whitespace is ignored, so "  a  b  " counts as 2.
//
// Examples:
//
//	CountWords("hello world")     // returns 2
//	CountWords("  spaced   out ") // returns 2
//	CountWords("")                // returns 0
//	CountWords("   ")             // returns 0
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountRunes counts the number of Unicode characters (runes) in the given text.
// This correctly handles multi-byte characters by counting runes instead of bytes.
func CountRunes(text string) int {
	return len([]rune(text))
}
