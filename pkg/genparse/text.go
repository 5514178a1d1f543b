package genparse

import (
	"strings"

	"github.com/appcanvas/genparse/pkg/internal/scan"
)

// Invisible prefixes models sometimes emit before the payload.
var invisiblePrefixes = []string{
	"\uFEFF", // BOM
	"\u200B", // zero-width space
	"\u200E", // LTR mark
	"\u200F", // RTL mark
}

func stripInvisible(text string) string {
	for {
		trimmed := false
		for _, p := range invisiblePrefixes {
			if strings.HasPrefix(text, p) {
				text = text[len(p):]
				trimmed = true
			}
		}
		if !trimmed {
			return text
		}
	}
}

// prepareJSONCandidate trims wrappers that hide a JSON payload: invisible
// characters, one leading fenced code block, and a leading "// PLAN: {...}"
// comment. Both the detector and the JSON extractor use the same
// preparation so they agree on what the candidate text is.
func prepareJSONCandidate(text string) string {
	t := strings.TrimSpace(stripInvisible(text))
	t = stripLeadingPlanComment(t)
	t = unwrapLeadingFence(t)
	t = stripLeadingPlanComment(t)
	return strings.TrimSpace(t)
}

// stripLeadingPlanComment removes a "// PLAN: {...}" header. The JSON object
// is located by brace counting, not by a greedy match, so plans containing
// nested objects or braces inside strings survive.
func stripLeadingPlanComment(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "// PLAN:") && !strings.HasPrefix(t, "//PLAN:") {
		return text
	}

	start := strings.IndexByte(t, '{')
	if start < 0 {
		// Header with no object: drop the line.
		if nl := strings.IndexByte(t, '\n'); nl >= 0 {
			return t[nl+1:]
		}
		return ""
	}

	s := scan.New(scan.ModeJSON)
	for i := start; i < len(t); i++ {
		s.Step(t[i])
		if s.Depth() == 0 && !s.InString() {
			return t[i+1:]
		}
	}
	// The plan object itself is truncated; drop the first line only.
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		return t[nl+1:]
	}
	return ""
}

// unwrapLeadingFence removes one leading fenced code block wrapper. When the
// closing fence exists, everything inside plus anything after it is kept;
// when truncation ate the closing fence, only the fence line is dropped.
func unwrapLeadingFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return text
	}

	nl := strings.IndexByte(t, '\n')
	if nl < 0 {
		return ""
	}
	body := t[nl+1:]

	if idx := strings.Index(body, "\n```"); idx >= 0 {
		inner := body[:idx]
		rest := body[idx+len("\n```"):]
		if rnl := strings.IndexByte(rest, '\n'); rnl >= 0 {
			rest = rest[rnl+1:]
		} else {
			rest = ""
		}
		if strings.TrimSpace(rest) == "" {
			return inner
		}
		return inner + "\n" + rest
	}
	return body
}
