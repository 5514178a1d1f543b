package genparse

import "sort"

// FileState describes where one path is in its lifecycle during streaming.
type FileState string

// File states, in lifecycle order.
const (
	StatePending   FileState = "pending"
	StateStreaming FileState = "streaming"
	StateComplete  FileState = "complete"
)

// FileStatus pairs a path with its current state.
type FileStatus struct {
	Path  string    `json:"path"`
	State FileState `json:"state"`
}

// FileStatuses derives a per-file progress view from a parse result.
// Complete files come from the extracted map, streaming ones from
// incompleteFiles, and pending ones from plan or manifest entries that have
// not appeared yet. The list is sorted by path within each state.
func FileStatuses(res *ParseResult) []FileStatus {
	if res == nil {
		return nil
	}

	var out []FileStatus
	seen := make(map[string]bool)
	add := func(p string, s FileState) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, FileStatus{Path: p, State: s})
	}

	complete := make([]string, 0, len(res.Files))
	for p := range res.Files {
		complete = append(complete, p)
	}
	sort.Strings(complete)
	for _, p := range complete {
		add(p, StateComplete)
	}

	streaming := append([]string(nil), res.IncompleteFiles...)
	sort.Strings(streaming)
	for _, p := range streaming {
		add(p, StateStreaming)
	}

	var pending []string
	if res.Plan != nil {
		pending = append(pending, res.Plan.Create...)
		pending = append(pending, res.Plan.Update...)
	}
	for _, entry := range res.Manifest {
		if entry.Action != ActionDelete {
			pending = append(pending, entry.Path)
		}
	}
	sort.Strings(pending)
	for _, p := range pending {
		add(p, StatePending)
	}

	return out
}
