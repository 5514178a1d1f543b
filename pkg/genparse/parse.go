// Package genparse parses LLM-generated code responses into structured
// results. Model output arrives in one of several shapes (JSON envelopes,
// delimiter-marker blocks, or plain markdown with code fences) and is often
// cut off mid-generation; genparse detects the shape, extracts every file it
// can, repairs truncated JSON and common syntax slips, and reports what was
// recovered, what is still incomplete, and why.
//
// The engine is synchronous and allocation-local: every call builds a fresh
// ParseResult, so concurrent parses of independent buffers need no
// coordination. Streaming callers re-parse the whole accumulated buffer on
// each chunk (see StreamParser) rather than resuming a suspended parse.
package genparse

import (
	"errors"
	"strings"

	interrors "github.com/appcanvas/genparse/pkg/internal/errors"
)

// Sentinel errors returned by Parse before any extraction is attempted.
var (
	ErrEmptyInput    = errors.New("genparse: empty input")
	ErrInputTooLarge = errors.New("genparse: input exceeds maximum size")
)

// Parse detects the format of text and extracts files plus metadata from
// it. The returned result is always non-nil on a nil error; per-file
// problems surface as result warnings and errors, not as a Go error.
func Parse(text string, opts ...Option) (*ParseResult, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if o.maxInputSize > 0 && len(text) > o.maxInputSize {
		return nil, ErrInputTooLarge
	}

	format := DetectFormat(text)
	ex := newExtraction(format, o)

	switch format {
	case FormatJSONV1, FormatJSONV2:
		extractJSONResponse(text, ex)
	case FormatMarkerV1, FormatMarkerV2:
		extractMarkerResponse(text, ex)
	case FormatFallback:
		extractFallbackResponse(text, ex)
	case FormatUnknown:
		ex.diags.Errorf(interrors.KindNoStructure, nil, "no recognizable response structure")
		if o.aggressiveRecovery {
			recoverUnknown(text, ex)
		}
	}

	// A structured shape that produced nothing still gets a fallback sweep:
	// fenced code in the surrounding prose beats an empty result.
	if format != FormatFallback && format != FormatUnknown && len(ex.res.Files) == 0 {
		extractFallbackResponse(text, ex)
	}

	return ex.finish(), nil
}

// recoverUnknown tries each extractor in turn until one yields at least one
// file. Diagnostics from failed attempts are kept.
func recoverUnknown(text string, ex *extraction) {
	for _, attempt := range []struct {
		format  Format
		extract func(string, *extraction)
	}{
		{FormatJSONV1, extractJSONResponse},
		{FormatMarkerV1, extractMarkerResponse},
		{FormatFallback, extractFallbackResponse},
	} {
		attempt.extract(text, ex)
		if len(ex.res.Files) > 0 {
			ex.res.Format = attempt.format
			return
		}
	}
}
