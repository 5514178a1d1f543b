package genparse

import (
	"fmt"
	"sort"
	"strings"
)

// ContinuationPrompt builds a follow-up instruction asking the model to
// resume an interrupted generation. It returns "" when the result shows no
// sign of truncation.
func ContinuationPrompt(res *ParseResult) string {
	if res == nil || !res.Truncated {
		return ""
	}

	var b strings.Builder
	b.WriteString("The previous response was cut off. Continue the generation.\n")

	if len(res.Files) > 0 {
		done := make([]string, 0, len(res.Files))
		for p := range res.Files {
			done = append(done, p)
		}
		fmt.Fprintf(&b, "Already received in full (do not repeat): %s.\n",
			strings.Join(sortedPaths(done), ", "))
	}
	for _, p := range res.IncompleteFiles {
		fmt.Fprintf(&b, "Re-emit %s from the beginning; it was interrupted mid-file.\n", p)
	}
	if res.Validation != nil && len(res.Validation.Missing) > 0 {
		fmt.Fprintf(&b, "Still missing from the manifest: %s.\n",
			strings.Join(res.Validation.Missing, ", "))
	}
	if res.Batch != nil && !res.Batch.IsComplete {
		fmt.Fprintf(&b, "Continue with batch %d of %d.", res.Batch.Current+1, res.Batch.Total)
		if res.Batch.NextBatchHint != "" {
			fmt.Fprintf(&b, " %s", res.Batch.NextBatchHint)
		}
		b.WriteString("\n")
		if len(res.Batch.Remaining) > 0 {
			fmt.Fprintf(&b, "Files still expected: %s.\n",
				strings.Join(res.Batch.Remaining, ", "))
		}
	}
	b.WriteString("Use the same response format as before.")
	return b.String()
}

func sortedPaths(paths []string) []string {
	sort.Strings(paths)
	return paths
}
