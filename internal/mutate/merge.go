package mutate

import (
	"strings"

	"launchpad-cli/internal/model"
)

// Merge folds a scan result into the current layout.
//
// Apps whose location already appears anywhere in current (top level or inside a
// folder) are skipped; the rest are appended to the end of the top level in scan
// order. Existing items, their order and folder membership are never touched.
// Returns the merged collection and the number of apps added.
func Merge(current model.Collection, scanned []model.App) (model.Collection, int) {
	if len(current) == 0 {
		out := make(model.Collection, 0, len(scanned))
		seen := map[string]bool{}
		for _, a := range scanned {
			if strings.TrimSpace(a.Location) == "" || seen[a.Location] {
				continue
			}
			seen[a.Location] = true
			out = append(out, a)
		}
		return out, len(out)
	}

	existing := current.Locations()
	out := current.Clone()
	added := 0
	for _, a := range scanned {
		if strings.TrimSpace(a.Location) == "" || existing[a.Location] {
			continue
		}
		existing[a.Location] = true
		out = append(out, a)
		added++
	}
	return out, added
}
