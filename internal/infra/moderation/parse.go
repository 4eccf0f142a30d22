package moderation

import "strings"

// defaultUnsafeExplanation is shown to the author when the model flags the
// content but provides no usable explanation line.
const defaultUnsafeExplanation = "Your post was flagged as inappropriate by our AI moderator."

// parseVerdict interprets the two-line moderator response. The first
// non-empty line decides the verdict; anything other than "unsafe"
// (case-insensitive) counts as safe, so a confused model errs toward
// publication. The second non-empty line, when present, becomes the
// author-facing explanation.
func parseVerdict(raw string) Verdict {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) == 0 {
		return Verdict{Safe: true}
	}

	var explanation string
	if len(lines) > 1 {
		explanation = lines[1]
	}

	if !strings.EqualFold(lines[0], "unsafe") {
		return Verdict{Safe: true, Explanation: explanation}
	}

	if explanation == "" {
		explanation = defaultUnsafeExplanation
	}
	return Verdict{Safe: false, Explanation: explanation}
}
