// Package codeclean normalizes extracted file content before it is stored:
// it unwraps markdown fences the model wrapped around whole files, removes
// marker delimiter lines that leaked into file bodies, and filters paths
// that should never be written (VCS internals, build output).
package codeclean

import (
	"path"
	"regexp"
	"strings"
)

var (
	openFence  = regexp.MustCompile("^```[\\w+-]*[ \t]*$")
	closeFence = regexp.MustCompile("^```[ \t]*$")
	markerLine = regexp.MustCompile(`^\s*<!--\s*/?(?:FILE|META|PLAN|EXPLANATION|MANIFEST|BATCH)\b.*-->\s*$`)
)

// Clean strips markdown fences and marker artifacts from one file's content.
// The path drives extension-sensitive behavior: markdown files keep their
// fences, since fenced blocks are content there, not wrapping.
func Clean(filePath, content string) string {
	out := strings.TrimSpace(content)
	if out == "" {
		return ""
	}

	if !isMarkdown(filePath) {
		out = unwrapFence(out)
	}
	out = stripMarkerLines(out)
	return strings.TrimSpace(out)
}

// unwrapFence removes one outer fence pair, or a lone opening fence left by
// truncation. Inner fences are preserved.
func unwrapFence(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || !openFence.MatchString(lines[0]) {
		return content
	}

	body := lines[1:]
	// A closing fence is only the outer wrapper when it is the last
	// non-blank line. A closer with content after it means the fences were
	// part of the file, so both are kept.
	for i := len(body) - 1; i >= 0; i-- {
		if strings.TrimSpace(body[i]) == "" {
			continue
		}
		if closeFence.MatchString(body[i]) {
			return strings.Join(body[:i], "\n")
		}
		break
	}
	for _, line := range body {
		if closeFence.MatchString(line) {
			return content
		}
	}
	// No closer anywhere: truncation left a lone opening fence.
	return strings.Join(body, "\n")
}

func stripMarkerLines(content string) string {
	if !strings.Contains(content, "<!--") {
		return content
	}
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if markerLine.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isMarkdown(filePath string) bool {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".md", ".mdx", ".markdown":
		return true
	}
	return false
}

// Path segments that mark generated or VCS-internal files.
var ignoredSegments = map[string]bool{
	"node_modules": true,
	".git":         true,
	".svn":         true,
	"dist":         true,
	"build":        true,
	".next":        true,
	"coverage":     true,
	"__pycache__":  true,
}

var ignoredFiles = map[string]bool{
	".DS_Store":         true,
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
}

// IsIgnoredPath reports whether extracted content for this path should be
// dropped instead of stored.
func IsIgnoredPath(filePath string) bool {
	clean := strings.ReplaceAll(filePath, "\\", "/")
	for _, seg := range strings.Split(clean, "/") {
		if ignoredSegments[seg] || ignoredFiles[seg] {
			return true
		}
	}
	return false
}
