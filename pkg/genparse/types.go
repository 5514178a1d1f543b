package genparse

// Format identifies one of the closed set of response shapes.
type Format string

// Format constants.
const (
	FormatJSONV1   Format = "json-v1"
	FormatJSONV2   Format = "json-v2"
	FormatMarkerV1 Format = "marker-v1"
	FormatMarkerV2 Format = "marker-v2"
	FormatFallback Format = "fallback"
	FormatUnknown  Format = "unknown"
)

// Plan is the declared change intent, independent of what was extracted.
type Plan struct {
	Create []string `json:"create,omitempty"`
	Update []string `json:"update,omitempty"`
	Delete []string `json:"delete,omitempty"`
}

// Manifest entry actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Manifest entry statuses.
const (
	StatusIncluded = "included"
	StatusPending  = "pending"
	StatusMarked   = "marked"
	StatusSkipped  = "skipped"
)

// ManifestEntry is one row of the declared file inventory. The manifest is
// advisory: it drives validation, never extraction.
type ManifestEntry struct {
	Path   string `json:"path"`
	Action string `json:"action"`
	Lines  int    `json:"lines,omitempty"`
	Tokens int    `json:"tokens,omitempty"`
	Status string `json:"status"`
}

// BatchInfo describes one installment of a multi-part generation.
type BatchInfo struct {
	Current       int      `json:"current"`
	Total         int      `json:"total"`
	IsComplete    bool     `json:"isComplete"`
	Completed     []string `json:"completed,omitempty"`
	Remaining     []string `json:"remaining,omitempty"`
	NextBatchHint string   `json:"nextBatchHint,omitempty"`
}

// Meta carries the response's self-declared format information.
type Meta struct {
	Format    string `json:"format,omitempty"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ManifestValidation compares the declared manifest against what was
// actually extracted. It is diagnostic only.
type ManifestValidation struct {
	IsValid bool     `json:"isValid"`
	Missing []string `json:"missing"`
	Extra   []string `json:"extra"`
}

// ParseResult is the sole output of a parse. A fresh result is constructed
// per call; streaming callers re-parse the whole accumulated buffer instead
// of patching a previous result.
type ParseResult struct {
	Format      Format            `json:"format"`
	Files       map[string]string `json:"files"`
	Explanation string            `json:"explanation,omitempty"`
	Plan        *Plan             `json:"plan,omitempty"`
	Manifest    []ManifestEntry   `json:"manifest,omitempty"`
	Batch       *BatchInfo        `json:"batch,omitempty"`
	Meta        *Meta             `json:"meta,omitempty"`

	// Truncated is set when any evidence of incompleteness was found:
	// an unclosed batch, an unclosed file, or JSON that needed repair.
	Truncated bool `json:"truncated"`

	// IncompleteFiles are paths whose opening delimiter was seen but whose
	// content never reached a terminal boundary.
	IncompleteFiles []string `json:"incompleteFiles,omitempty"`

	// RecoveredFiles are paths whose content was extracted despite a
	// missing or malformed closing delimiter.
	RecoveredFiles []string `json:"recoveredFiles,omitempty"`

	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`

	// DeletedFiles aliases Plan.Delete for callers that only need the list.
	DeletedFiles []string `json:"deletedFiles,omitempty"`

	Validation *ManifestValidation `json:"validation,omitempty"`
}
