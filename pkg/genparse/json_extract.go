package genparse

import (
	"encoding/json"
	"regexp"
	"strings"

	interrors "github.com/appcanvas/genparse/pkg/internal/errors"
	"github.com/appcanvas/genparse/pkg/internal/jsonrepair"
)

// extractJSONResponse pulls files and metadata out of a JSON-shaped payload,
// invoking JSON repair when the payload is truncated. It handles both the v1
// shape (files/fileChanges/changes plus explanation) and the v2 envelope
// (meta/plan/manifest/batch on top of v1).
func extractJSONResponse(text string, ex *extraction) {
	body := prepareJSONCandidate(text)
	start := strings.IndexByte(body, '{')
	if start < 0 {
		ex.diags.Errorf(interrors.KindNoStructure, nil, "no JSON object found in response")
		return
	}

	root := decodeRootObject(body[start:], ex)
	if root == nil {
		return
	}

	if raw, ok := root["explanation"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			ex.res.Explanation = strings.TrimSpace(s)
		}
	}

	extracted := false
	for _, key := range []string{"files", "fileChanges", "changes"} {
		raw, ok := root[key]
		if !ok {
			continue
		}
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			continue
		}
		extracted = true
		for p, rawContent := range entries {
			content, ok := decodeFileContent(rawContent)
			if !ok {
				ex.diags.Errorf(interrors.KindSkippedFile, []string{"files", p}, "unrecognized file value shape")
				continue
			}
			ex.addFile(p, content)
		}
	}
	if !extracted {
		extractRootPathKeys(root, ex)
	}

	decodeEnvelopeFields(root, ex)
}

// decodeRootObject parses the candidate region, repairing on failure. A nil
// return means even the repaired text did not parse; the diagnostic is
// already recorded.
func decodeRootObject(candidate string, ex *extraction) map[string]json.RawMessage {
	var root map[string]json.RawMessage
	// Decoder stops after the first value, so prose after the JSON object
	// does not fail the parse.
	if err := json.NewDecoder(strings.NewReader(candidate)).Decode(&root); err == nil {
		return root
	}

	// Size was validated by the orchestrator; repair with the guard off.
	rep, err := jsonrepair.RepairWithLimit(candidate, 0)
	if err != nil {
		ex.diags.Errorf(interrors.KindJSONParseFailed, nil, "repair failed: %v", err)
		return nil
	}
	if err := json.NewDecoder(strings.NewReader(rep.JSON)).Decode(&root); err != nil {
		ex.diags.Errorf(interrors.KindJSONParseFailed, nil, "JSON did not parse even after repair: %v", err)
		return nil
	}
	ex.res.Truncated = true
	ex.diags.Warnf(interrors.KindJSONRepaired, nil, "truncated JSON repaired (%s)", strings.Join(rep.Repairs, "; "))
	return root
}

// decodeFileContent accepts a raw string value or an object carrying
// content/code/diff.
func decodeFileContent(raw json.RawMessage) (string, bool) {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, true
	}
	var obj struct {
		Content *string `json:"content"`
		Code    *string `json:"code"`
		Diff    *string `json:"diff"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		switch {
		case obj.Content != nil:
			return *obj.Content, true
		case obj.Code != nil:
			return *obj.Code, true
		case obj.Diff != nil:
			return *obj.Diff, true
		}
	}
	return "", false
}

var envelopeKeys = map[string]bool{
	"files": true, "fileChanges": true, "changes": true,
	"explanation": true, "meta": true, "plan": true,
	"manifest": true, "batch": true, "format": true, "version": true,
}

var pathLikeKeyRe = regexp.MustCompile(`^[\w@](?:[\w@.\- ]*/)*[\w@.\- ]*\.\w{1,8}$`)

// extractRootPathKeys handles responses that put files directly at the root
// of the object, keyed by path.
func extractRootPathKeys(root map[string]json.RawMessage, ex *extraction) {
	for key, raw := range root {
		if envelopeKeys[key] || !pathLikeKeyRe.MatchString(key) {
			continue
		}
		if content, ok := decodeFileContent(raw); ok {
			ex.addFile(key, content)
		}
	}
}

// decodeEnvelopeFields reads the v2 additions: meta, plan, manifest, batch.
// Their absence is not an error; a v1 payload simply has none of them.
func decodeEnvelopeFields(root map[string]json.RawMessage, ex *extraction) {
	if raw, ok := root["meta"]; ok {
		var m Meta
		if json.Unmarshal(raw, &m) == nil {
			ex.res.Meta = &m
		}
	}
	if raw, ok := root["plan"]; ok {
		var p Plan
		if json.Unmarshal(raw, &p) == nil {
			ex.res.Plan = &p
		}
	}
	if raw, ok := root["manifest"]; ok {
		var m []ManifestEntry
		if json.Unmarshal(raw, &m) == nil {
			ex.res.Manifest = m
		}
	}
	if raw, ok := root["batch"]; ok {
		var b BatchInfo
		if json.Unmarshal(raw, &b) == nil {
			ex.res.Batch = &b
		}
	}
}
