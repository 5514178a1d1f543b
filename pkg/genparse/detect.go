package genparse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/appcanvas/genparse/pkg/internal/scan"
)

var (
	fileOpenRe  = regexp.MustCompile(`<!--\s*FILE:\s*(\S+?)\s*-->`)
	fileCloseRe = regexp.MustCompile(`<!--\s*/FILE:\s*(\S+?)\s*-->`)

	metaOpenRe        = regexp.MustCompile(`<!--\s*META\s*-->`)
	planOpenRe        = regexp.MustCompile(`<!--\s*PLAN\s*-->`)
	explanationOpenRe = regexp.MustCompile(`<!--\s*EXPLANATION\s*-->`)

	// Fenced block tagged with a source-code language.
	sourceFenceRe = regexp.MustCompile("(?mi)^```(?:jsx?|tsx?|javascript|typescript|css|scss|html?|vue|svelte)[ \t]*$")

	jsonFilesKeyRe       = regexp.MustCompile(`"(?:files|fileChanges|changes)"\s*:\s*\{`)
	jsonExplanationKeyRe = regexp.MustCompile(`"explanation"\s*:`)
	jsonFormatMarkerRe   = regexp.MustCompile(`"meta"\s*:\s*\{[^{}]*"(?:format|version)"`)
	jsonBatchKeyRe       = regexp.MustCompile(`"batch"\s*:\s*\{`)
	jsonManifestKeyRe    = regexp.MustCompile(`"manifest"\s*:\s*\[`)
)

// DetectFormat classifies raw response text into one of the closed set of
// formats. It is a pure function: no repair, no mutation, first match wins.
func DetectFormat(text string) Format {
	t := strings.TrimSpace(stripInvisible(text))
	if t == "" {
		return FormatUnknown
	}

	hasFile := fileOpenRe.MatchString(t)
	if metaOpenRe.MatchString(t) && hasFile {
		return FormatMarkerV2
	}
	if hasFile {
		return FormatMarkerV1
	}
	if planOpenRe.MatchString(t) && explanationOpenRe.MatchString(t) {
		return FormatMarkerV1
	}

	j := prepareJSONCandidate(t)
	if jsonFormatMarkerRe.MatchString(j) ||
		(jsonBatchKeyRe.MatchString(j) && jsonManifestKeyRe.MatchString(j)) {
		return FormatJSONV2
	}
	if jsonFilesKeyRe.MatchString(j) || jsonExplanationKeyRe.MatchString(j) {
		return FormatJSONV1
	}
	if f, ok := classifyByParse(j); ok {
		return f
	}

	if sourceFenceRe.MatchString(t) {
		return FormatFallback
	}
	return FormatUnknown
}

// classifyByParse parses the first balanced {...} region and classifies by
// the keys it carries.
func classifyByParse(text string) (Format, bool) {
	region, ok := firstBalancedObject(text)
	if !ok {
		return FormatUnknown, false
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(region), &root); err != nil {
		return FormatUnknown, false
	}
	if _, v2 := root["meta"]; v2 {
		return FormatJSONV2, true
	}
	if _, v2 := root["batch"]; v2 {
		return FormatJSONV2, true
	}
	if _, v1 := root["files"]; v1 {
		return FormatJSONV1, true
	}
	if _, v1 := root["fileChanges"]; v1 {
		return FormatJSONV1, true
	}
	return FormatUnknown, false
}

// firstBalancedObject returns the substring from the first "{" through its
// matching close, using the shared scanner so braces inside strings do not
// mislead the match.
func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	s := scan.New(scan.ModeJSON)
	for i := start; i < len(text); i++ {
		s.Step(text[i])
		if s.Depth() == 0 && !s.InString() {
			return text[start : i+1], true
		}
	}
	return "", false
}
