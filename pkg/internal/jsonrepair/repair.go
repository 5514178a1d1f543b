// Package jsonrepair closes truncated JSON text into a parseable string.
//
// The repairer never rewrites values it can still see; it only closes an
// unterminated string, drops one trailing fragment that cannot be completed,
// and appends the closing brackets the truncation cut off. Anything balanced
// is returned untouched, which makes repair idempotent.
package jsonrepair

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/appcanvas/genparse/pkg/internal/scan"
)

// DefaultMaxSize is the input ceiling above which Repair refuses to scan.
const DefaultMaxSize = 500_000

// ErrTooLarge is returned when the input exceeds the size ceiling.
var ErrTooLarge = errors.New("jsonrepair: input exceeds size limit")

// Result holds the repaired text and a record of what was done.
type Result struct {
	JSON        string
	WasRepaired bool
	Repairs     []string
}

// Trailing fragments that cannot be completed, in the order they are tried.
// The patterns are mutually exclusive by construction, so only the first
// match is applied.
var trailingFragments = []struct {
	re   *regexp.Regexp
	note string
}{
	{regexp.MustCompile(`,\s*$`), "removed trailing comma"},
	{regexp.MustCompile(`,?\s*"(?:[^"\\]|\\.)*"\s*:\s*$`), "removed dangling key with no value"},
	{regexp.MustCompile(`,?\s*"(?:[^"\\]|\\.)*"\s*:\s*"(?:[^"\\]|\\.)*$`), "removed truncated string value"},
}

// Repair closes truncated JSON using the default size ceiling.
func Repair(input string) (Result, error) {
	return RepairWithLimit(input, DefaultMaxSize)
}

// RepairWithLimit closes truncated JSON. It fails only on the size guard;
// malformed input within the limit always yields a best-effort result.
func RepairWithLimit(input string, maxSize int) (Result, error) {
	if maxSize > 0 && len(input) > maxSize {
		return Result{}, fmt.Errorf("%w (%d > %d chars)", ErrTooLarge, len(input), maxSize)
	}

	res := Result{JSON: input}

	b := scan.Check(res.JSON, scan.ModeJSON)
	if b.Balanced {
		return res, nil
	}

	if b.InString {
		res.JSON += string(b.Quote)
		res.record("closed unterminated string")
		if b = scan.Check(res.JSON, scan.ModeJSON); b.Balanced {
			return res, nil
		}
	}

	for _, frag := range trailingFragments {
		if loc := frag.re.FindStringIndex(res.JSON); loc != nil && loc[1] == len(res.JSON) {
			res.JSON = res.JSON[:loc[0]]
			res.record(frag.note)
			break
		}
	}
	if b = scan.Check(res.JSON, scan.ModeJSON); b.Balanced {
		return res, nil
	}

	// Stripping a fragment can leave the text mid-string again
	// (a truncated key with no colon, for example).
	if b.InString {
		res.JSON += string(b.Quote)
		res.record("closed unterminated string")
		b = scan.Check(res.JSON, scan.ModeJSON)
	}

	if len(b.Open) > 0 {
		res.JSON += scan.Closers(b.Open)
		res.record(fmt.Sprintf("closed %d open bracket(s)", len(b.Open)))
	}

	return res, nil
}

func (r *Result) record(note string) {
	r.WasRepaired = true
	r.Repairs = append(r.Repairs, note)
}
