// Package schema generates JSON Schemas for the structured response
// envelope, so callers can hand an LLM provider an exact contract for the
// payloads genparse parses.
package schema

import "github.com/appcanvas/genparse/pkg/genparse"

// ResponseEnvelope is the shape a model should emit for a structured JSON
// response. Parsing accepts looser input than this; the envelope is the
// strict contract used for schema-constrained generation.
type ResponseEnvelope struct {
	Meta        genparse.Meta            `json:"meta" jsonschema:"title=Response metadata"`
	Explanation string                   `json:"explanation,omitempty" jsonschema:"description=Short human-readable summary of the change"`
	Plan        genparse.Plan            `json:"plan,omitempty" jsonschema:"description=Declared change intent before any file content"`
	Manifest    []genparse.ManifestEntry `json:"manifest,omitempty" jsonschema:"description=Inventory of every file this generation will touch"`
	Batch       genparse.BatchInfo       `json:"batch,omitempty" jsonschema:"description=Progress marker for multi-part generations"`
	Files       map[string]string        `json:"files" jsonschema:"description=Complete file contents keyed by repository-relative path"`
}
