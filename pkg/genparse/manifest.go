package genparse

import "sort"

// ValidateManifest compares the declared manifest against the extracted
// files. Expected paths are those marked included whose action is not
// delete. The comparison is diagnostic only: it never adds or removes
// files. An empty manifest is vacuously valid.
func ValidateManifest(manifest []ManifestEntry, files map[string]string) ManifestValidation {
	v := ManifestValidation{IsValid: true, Missing: []string{}, Extra: []string{}}
	if len(manifest) == 0 {
		return v
	}

	expected := make(map[string]bool, len(manifest))
	for _, entry := range manifest {
		if entry.Status == StatusIncluded && entry.Action != ActionDelete {
			expected[entry.Path] = true
		}
	}

	for _, entry := range manifest {
		if expected[entry.Path] {
			if _, ok := files[entry.Path]; !ok {
				v.Missing = append(v.Missing, entry.Path)
				expected[entry.Path] = false // report once per path
			}
		}
	}
	for p := range files {
		if _, declared := expected[p]; !declared {
			v.Extra = append(v.Extra, p)
		}
	}

	sort.Strings(v.Extra)
	v.IsValid = len(v.Missing) == 0
	return v
}
