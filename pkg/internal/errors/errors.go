// Package errors defines shared diagnostic types for genparse.
package errors

import (
	"fmt"
	"strings"
)

// Kind is an enum for diagnostic categories.
type Kind string

// Kind constants.
const (
	KindInputTooLarge    Kind = "input_too_large"   // Input exceeds the configured size ceiling
	KindEmptyInput       Kind = "empty_input"       // Input is empty or whitespace
	KindNoStructure      Kind = "no_structure"      // No recognizable response structure found
	KindJSONParseFailed  Kind = "json_parse_failed" // JSON parse failed even after repair
	KindJSONRepaired     Kind = "json_repaired"     // JSON parse succeeded only after repair
	KindManifestMismatch Kind = "manifest_mismatch" // Manifest promises files that were not extracted
	KindUnclosedFile     Kind = "unclosed_file"     // A FILE block never reached its closing delimiter
	KindRecoveredFile    Kind = "recovered_file"    // File content recovered past a missing delimiter
	KindSkippedFile      Kind = "skipped_file"      // Extracted file discarded (empty, too short, ignored path)
	KindRepairReverted   Kind = "repair_reverted"   // Code auto-repair output failed validation and was discarded
)

// Severity separates diagnostics that mark a skipped piece from ones that
// only annotate the result.
type Severity int

const (
	// SeverityWarning never blocks extraction.
	SeverityWarning Severity = iota
	// SeverityError marks a piece that was skipped.
	SeverityError
)

// Diagnostic is one parse-level finding with location information.
type Diagnostic struct {
	Loc      []string // Path to the piece, e.g., ["files", "src/App.tsx"]
	Message  string   // Human-readable message
	Kind     Kind     // Diagnostic category
	Severity Severity
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if len(d.Loc) == 0 {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", strings.Join(d.Loc, "."), d.Message)
}

// Diagnostics is an append-only list threaded through every extractor call.
type Diagnostics []Diagnostic

// Error implements the error interface.
func (ds Diagnostics) Error() string {
	if len(ds) == 0 {
		return "diagnostics: (none)"
	}
	if len(ds) == 1 {
		return ds[0].Error()
	}
	var msgs []string
	for _, d := range ds {
		msgs = append(msgs, d.Error())
	}
	return fmt.Sprintf("diagnostics (%d): %s", len(ds), strings.Join(msgs, "; "))
}

// Unwrap returns the diagnostics as a slice for errors.As/errors.Is compatibility.
func (ds Diagnostics) Unwrap() []error {
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errs
}

// Warnf appends a warning diagnostic.
func (ds *Diagnostics) Warnf(kind Kind, loc []string, format string, args ...any) {
	*ds = append(*ds, Diagnostic{Loc: loc, Message: fmt.Sprintf(format, args...), Kind: kind, Severity: SeverityWarning})
}

// Errorf appends an error diagnostic.
func (ds *Diagnostics) Errorf(kind Kind, loc []string, format string, args ...any) {
	*ds = append(*ds, Diagnostic{Loc: loc, Message: fmt.Sprintf(format, args...), Kind: kind, Severity: SeverityError})
}

// Warnings renders the warning-severity messages in order.
func (ds Diagnostics) Warnings() []string { return ds.messages(SeverityWarning) }

// Errors renders the error-severity messages in order.
func (ds Diagnostics) Errors() []string { return ds.messages(SeverityError) }

func (ds Diagnostics) messages(sev Severity) []string {
	var out []string
	for _, d := range ds {
		if d.Severity == sev {
			out = append(out, d.Error())
		}
	}
	return out
}

// HasKind reports whether any diagnostic carries the given kind.
func (ds Diagnostics) HasKind(kind Kind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
