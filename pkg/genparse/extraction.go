package genparse

import (
	"path"
	"strings"

	"github.com/appcanvas/genparse/pkg/internal/coderepair"
	interrors "github.com/appcanvas/genparse/pkg/internal/errors"
)

// extraction is the shared accumulator every extractor writes into. Each
// extractor is a plain function over this struct, so diagnostics from a
// failed attempt survive into the final result even when a later attempt
// succeeds.
type extraction struct {
	res   *ParseResult
	diags interrors.Diagnostics
	opts  *options
}

func newExtraction(format Format, opts *options) *extraction {
	return &extraction{
		res: &ParseResult{
			Format: format,
			Files:  make(map[string]string),
		},
		opts: opts,
	}
}

// addFile cleans, filters, and stores one extracted file. It reports whether
// the file was stored.
func (ex *extraction) addFile(filePath, content string) bool {
	return ex.storeFile(filePath, content, ex.opts.minFileLength)
}

// addDelimitedFile stores a file whose boundaries were explicit delimiters.
// Only empty content is rejected; the minimum-length filter is for
// heuristic extraction, not for blocks the response clearly labeled.
func (ex *extraction) addDelimitedFile(filePath, content string) bool {
	return ex.storeFile(filePath, content, 1)
}

func (ex *extraction) storeFile(filePath, content string, minLen int) bool {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return false
	}
	if ex.opts.ignorePath(filePath) {
		ex.diags.Warnf(interrors.KindSkippedFile, []string{"files", filePath}, "ignored path, not stored")
		return false
	}

	cleaned := ex.opts.cleaner(filePath, content)
	if len(cleaned) < minLen || cleaned == "" {
		ex.diags.Warnf(interrors.KindSkippedFile, []string{"files", filePath},
			"content too short after cleaning (%d chars), not stored", len(cleaned))
		return false
	}

	if ex.opts.autoRepair && isRepairableCode(filePath) {
		if repaired, ok := coderepair.SafeApply(cleaned); ok {
			cleaned = repaired
		}
	}

	ex.res.Files[filePath] = cleaned
	return true
}

func (ex *extraction) markIncomplete(filePath string) {
	for _, p := range ex.res.IncompleteFiles {
		if p == filePath {
			return
		}
	}
	ex.res.IncompleteFiles = append(ex.res.IncompleteFiles, filePath)
	ex.res.Truncated = true
}

func (ex *extraction) markRecovered(filePath string) {
	ex.res.RecoveredFiles = append(ex.res.RecoveredFiles, filePath)
}

// finish applies cross-field invariants and renders diagnostics into the
// result's warning/error lists.
func (ex *extraction) finish() *ParseResult {
	res := ex.res

	// A path is either complete or incomplete, never both.
	if len(res.IncompleteFiles) > 0 {
		kept := res.IncompleteFiles[:0]
		for _, p := range res.IncompleteFiles {
			if _, done := res.Files[p]; !done {
				kept = append(kept, p)
			}
		}
		res.IncompleteFiles = kept
		if len(res.IncompleteFiles) == 0 {
			res.IncompleteFiles = nil
		}
	}

	if res.Plan != nil && len(res.Plan.Delete) > 0 {
		res.DeletedFiles = append([]string(nil), res.Plan.Delete...)
	}

	if len(res.Manifest) > 0 {
		v := ValidateManifest(res.Manifest, res.Files)
		res.Validation = &v
		if !v.IsValid {
			ex.diags.Warnf(interrors.KindManifestMismatch, []string{"manifest"},
				"manifest lists %d file(s) that were not extracted: %s",
				len(v.Missing), strings.Join(v.Missing, ", "))
		}
	}

	if res.Batch != nil && !res.Batch.IsComplete {
		res.Truncated = true
	}
	if ex.diags.HasKind(interrors.KindJSONRepaired) {
		res.Truncated = true
	}

	res.Warnings = ex.diags.Warnings()
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	res.Errors = ex.diags.Errors()
	if res.Errors == nil {
		res.Errors = []string{}
	}
	return res
}

func isRepairableCode(filePath string) bool {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs":
		return true
	}
	return false
}
