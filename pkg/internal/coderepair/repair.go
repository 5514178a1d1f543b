// Package coderepair applies textual repairs for the mistakes code-generating
// models make most often: broken arrow functions, unquoted attributes,
// half-written ternaries, doubled type colons, and unbalanced brackets or
// element tags.
//
// The pipeline is an ordered list of independent passes. Order matters:
// normalizing "= >" to "=>" has to run before hybrid-function detection,
// which searches for a literal "=>". Each pass is idempotent when its
// pattern is absent, and the whole pipeline re-runs until a round changes
// nothing or the round limit is hit.
package coderepair

import (
	"github.com/appcanvas/genparse/pkg/internal/scan"
)

// maxRounds bounds how often the pass list is re-run.
const maxRounds = 3

type pass struct {
	name string
	fn   func(string) string
}

var passes = []pass{
	{"arrow-functions", repairArrowFunctions},
	{"attribute-quoting", repairAttributeQuoting},
	{"conditional-expressions", repairConditionals},
	{"declarations", repairDeclarations},
	{"bracket-balance", repairBracketBalance},
	{"tag-balance", repairTagBalance},
}

// Apply runs the full pipeline and returns the repaired text together with
// the names of the passes that changed it, in application order.
func Apply(src string) (string, []string) {
	var applied []string
	seen := map[string]bool{}

	out := src
	for round := 0; round < maxRounds; round++ {
		changed := false
		for _, p := range passes {
			next := p.fn(out)
			if next != out {
				changed = true
				if !seen[p.name] {
					seen[p.name] = true
					applied = append(applied, p.name)
				}
				out = next
			}
		}
		if !changed {
			break
		}
	}
	return out, applied
}

// SafeApply runs the pipeline on an owned copy and commits the result only
// if QuickValidate accepts it. On validation failure the original text is
// returned unchanged: the pipeline must never hand back something worse
// than its input. The bool reports whether a repaired result was committed.
func SafeApply(src string) (string, bool) {
	out, applied := Apply(src)
	if len(applied) == 0 {
		return src, false
	}
	if !QuickValidate(out) {
		return src, false
	}
	return out, true
}

// QuickValidate is the cheap post-repair check: brackets balance outside
// strings and none of the known-bad residual patterns remain.
func QuickValidate(src string) bool {
	if !scan.Check(src, scan.ModeCode).Balanced {
		return false
	}
	for _, re := range residualBad {
		if re.MatchString(src) {
			return false
		}
	}
	return true
}

// repairBracketBalance appends the missing closers for the open-bracket
// stack at end of text, last opened first. It never attempts mid-document
// insertion.
func repairBracketBalance(src string) string {
	b := scan.Check(src, scan.ModeCode)
	if b.InString || len(b.Open) == 0 {
		return src
	}
	return src + scan.Closers(b.Open)
}
