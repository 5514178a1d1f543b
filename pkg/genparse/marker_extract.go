package genparse

import (
	"regexp"
	"strconv"
	"strings"

	interrors "github.com/appcanvas/genparse/pkg/internal/errors"
)

var (
	metaCloseRe        = regexp.MustCompile(`<!--\s*/META\s*-->`)
	planCloseRe        = regexp.MustCompile(`<!--\s*/PLAN\s*-->`)
	explanationCloseRe = regexp.MustCompile(`<!--\s*/EXPLANATION\s*-->`)
	manifestOpenRe     = regexp.MustCompile(`<!--\s*MANIFEST\s*-->`)
	manifestCloseRe    = regexp.MustCompile(`<!--\s*/MANIFEST\s*-->`)
	batchOpenRe        = regexp.MustCompile(`<!--\s*BATCH\s*-->`)
	batchCloseRe       = regexp.MustCompile(`<!--\s*/BATCH\s*-->`)
)

// extractMarkerResponse pulls files and metadata out of a delimiter-marker
// payload. Well-formed file blocks are taken first; unclosed blocks are
// recovered by treating the next opening delimiter as an implicit close,
// except for the last one, which is still streaming.
func extractMarkerResponse(text string, ex *extraction) {
	t := stripInvisible(text)

	extractFileBlocks(t, ex)
	extractSingletonBlocks(t, ex)
}

type fileOpen struct {
	path         string
	markerStart  int
	contentStart int
	closed       bool
	contentEnd   int // valid only when closed
}

func extractFileBlocks(t string, ex *extraction) {
	openIdx := fileOpenRe.FindAllStringSubmatchIndex(t, -1)
	if len(openIdx) == 0 {
		return
	}

	opens := make([]*fileOpen, 0, len(openIdx))
	for _, m := range openIdx {
		opens = append(opens, &fileOpen{
			path:         t[m[2]:m[3]],
			markerStart:  m[0],
			contentStart: m[1],
		})
	}

	// Pair each opening with the first unused closing delimiter carrying the
	// identical path.
	closeIdx := fileCloseRe.FindAllStringSubmatchIndex(t, -1)
	closeUsed := make([]bool, len(closeIdx))
	for _, open := range opens {
		for ci, c := range closeIdx {
			if closeUsed[ci] || c[0] < open.contentStart {
				continue
			}
			if t[c[2]:c[3]] != open.path {
				continue
			}
			closeUsed[ci] = true
			open.closed = true
			open.contentEnd = c[0]
			break
		}
	}

	for i, open := range opens {
		if open.closed {
			ex.addDelimitedFile(open.path, t[open.contentStart:open.contentEnd])
			continue
		}
		if i < len(opens)-1 {
			// Implicitly closed by the next file starting.
			content := t[open.contentStart:opens[i+1].markerStart]
			if ex.addDelimitedFile(open.path, content) {
				ex.markRecovered(open.path)
				ex.diags.Warnf(interrors.KindRecoveredFile, []string{"files", open.path},
					"closing delimiter missing, content recovered up to next file block")
			}
			continue
		}
		// The last unclosed opening is the actively streaming file; it goes
		// to incompleteFiles, not files. A later re-parse on a longer
		// buffer picks it up once its closing delimiter arrives.
		ex.markIncomplete(open.path)
		ex.diags.Warnf(interrors.KindUnclosedFile, []string{"files", open.path},
			"file block never closed, treated as still streaming")
	}
}

// extractSingletonBlocks reads the PLAN, EXPLANATION, META, MANIFEST and
// BATCH blocks. An opened-but-unclosed block runs to end of text and marks
// the result truncated.
func extractSingletonBlocks(t string, ex *extraction) {
	if content, ok := singletonBlock(t, planOpenRe, planCloseRe, ex); ok {
		if plan := parsePlanBlock(content); plan != nil {
			ex.res.Plan = plan
		}
	}
	if content, ok := singletonBlock(t, explanationOpenRe, explanationCloseRe, ex); ok {
		ex.res.Explanation = strings.TrimSpace(content)
	}
	if content, ok := singletonBlock(t, metaOpenRe, metaCloseRe, ex); ok {
		ex.res.Meta = parseMetaBlock(content)
	}
	if content, ok := singletonBlock(t, manifestOpenRe, manifestCloseRe, ex); ok {
		ex.res.Manifest = parseManifestBlock(content)
	}
	if content, ok := singletonBlock(t, batchOpenRe, batchCloseRe, ex); ok {
		ex.res.Batch = parseBatchBlock(content)
	}
}

func singletonBlock(t string, openRe, closeRe *regexp.Regexp, ex *extraction) (string, bool) {
	o := openRe.FindStringIndex(t)
	if o == nil {
		return "", false
	}
	rest := t[o[1]:]
	c := closeRe.FindStringIndex(rest)
	if c == nil {
		ex.res.Truncated = true
		return rest, true
	}
	return rest[:c[0]], true
}

// parsePlanBlock reads `key: v1, v2` lines. Recognized keys are create,
// update and delete; a sizes line is accepted and ignored.
func parsePlanBlock(content string) *Plan {
	var plan Plan
	seen := false
	for _, line := range strings.Split(content, "\n") {
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		values := splitCommaList(rest)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "create":
			plan.Create = values
			seen = true
		case "update":
			plan.Update = values
			seen = true
		case "delete":
			plan.Delete = values
			seen = true
		case "sizes":
			seen = true
		}
	}
	if !seen {
		return nil
	}
	return &plan
}

// parseManifestBlock reads a pipe-delimited table, skipping header and
// separator rows by content sniffing.
func parseManifestBlock(content string) []ManifestEntry {
	var entries []ManifestEntry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") ||
			strings.HasPrefix(line, "| File") ||
			strings.HasPrefix(line, "|--") {
			continue
		}
		cols := splitPipeRow(line)
		if len(cols) < 2 {
			continue
		}
		entry := ManifestEntry{Path: cols[0], Action: strings.ToLower(cols[1])}
		if len(cols) > 2 {
			entry.Lines, _ = strconv.Atoi(cols[2])
		}
		if len(cols) > 3 {
			entry.Tokens, _ = strconv.Atoi(cols[3])
		}
		if len(cols) > 4 {
			entry.Status = strings.ToLower(cols[4])
		}
		entries = append(entries, entry)
	}
	return entries
}

func parseMetaBlock(content string) *Meta {
	var m Meta
	for key, value := range keyValueLines(content) {
		switch key {
		case "format":
			m.Format = value
		case "version":
			m.Version = value
		case "timestamp":
			m.Timestamp = value
		}
	}
	return &m
}

func parseBatchBlock(content string) *BatchInfo {
	var b BatchInfo
	for key, value := range keyValueLines(content) {
		switch key {
		case "current":
			b.Current, _ = strconv.Atoi(value)
		case "total":
			b.Total, _ = strconv.Atoi(value)
		case "iscomplete", "complete":
			b.IsComplete, _ = strconv.ParseBool(value)
		case "completed":
			b.Completed = splitCommaList(value)
		case "remaining":
			b.Remaining = splitCommaList(value)
		case "nextbatchhint", "hint":
			b.NextBatchHint = value
		}
	}
	return &b
}

func keyValueLines(content string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return out
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitPipeRow(line string) []string {
	parts := strings.Split(strings.Trim(line, "|"), "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
