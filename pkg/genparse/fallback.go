package genparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

var (
	barePathRe = regexp.MustCompile(`^[\w@](?:[\w@.\-]*/)*[\w@.\-]*\.[A-Za-z]\w{0,7}$`)

	// "File: path" header on the first line inside a fence, optionally
	// behind a line-comment prefix.
	fileHeaderRe = regexp.MustCompile(`(?i)^\s*(?://|#|/\*|<!--)?\s*File:\s*(\S+?)\s*(?:\*/|-->)?\s*$`)

	sourceLangs = map[string]bool{
		"js": true, "jsx": true, "ts": true, "tsx": true,
		"javascript": true, "typescript": true,
		"css": true, "scss": true, "html": true, "htm": true,
		"vue": true, "svelte": true,
	}
)

// extractFallbackResponse is the last-resort extractor for prose responses
// that carry code only inside markdown fences. Candidate blocks come from
// the markdown AST; each block is named by the first heuristic that applies:
// a bare path line right before the fence, a File: header inside it, or a
// synthetic name derived from the content.
func extractFallbackResponse(text string, ex *extraction) {
	source := []byte(stripInvisible(text))
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(source))

	synthetic := 0
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lang := string(fence.Language(source))
		content := fenceContent(fence, source)

		if p := precedingPathLabel(fence, source); p != "" {
			ex.addFile(p, content)
			return ast.WalkSkipChildren, nil
		}
		if p, rest, ok := fileHeaderLine(content); ok {
			ex.addFile(p, rest)
			return ast.WalkSkipChildren, nil
		}
		if sourceLangs[strings.ToLower(lang)] {
			synthetic++
			ex.addFile(syntheticName(content, synthetic), content)
		}
		return ast.WalkSkipChildren, nil
	})
}

func fenceContent(fence *ast.FencedCodeBlock, source []byte) string {
	var b strings.Builder
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// precedingPathLabel returns a file path when the node right before the
// fence is a short paragraph whose last line is a bare path.
func precedingPathLabel(fence *ast.FencedCodeBlock, source []byte) string {
	para, ok := fence.PreviousSibling().(*ast.Paragraph)
	if !ok {
		return ""
	}
	lines := para.Lines()
	if lines.Len() == 0 {
		return ""
	}
	seg := lines.At(lines.Len() - 1)
	last := string(seg.Value(source))
	last = strings.Trim(strings.TrimSpace(last), "`*")
	last = strings.TrimSuffix(last, ":")
	if barePathRe.MatchString(last) {
		return last
	}
	return ""
}

// fileHeaderLine splits off a leading "File: path" line, returning the path
// and the remaining content.
func fileHeaderLine(content string) (string, string, bool) {
	first, rest, _ := strings.Cut(content, "\n")
	m := fileHeaderRe.FindStringSubmatch(first)
	if m == nil {
		return "", "", false
	}
	return m[1], rest, true
}

// syntheticName classifies unlabeled code by shape: UI components get a
// .tsx name, plain modules with exports a .ts name, everything else .js.
func syntheticName(content string, n int) string {
	switch {
	case looksLikeComponent(content):
		return fmt.Sprintf("component%d.tsx", n)
	case strings.Contains(content, "export "):
		return fmt.Sprintf("module%d.ts", n)
	default:
		return fmt.Sprintf("code%d.js", n)
	}
}

func looksLikeComponent(content string) bool {
	if !strings.Contains(content, "return") && !strings.Contains(content, "=>") {
		return false
	}
	return strings.Contains(content, "</") ||
		strings.Contains(content, "/>") ||
		strings.Contains(content, "React")
}
