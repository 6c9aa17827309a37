package gitrepo

import (
	"context"
	"fmt"
	"strings"

	"launchpad-cli/internal/model"
	"launchpad-cli/internal/store"
)

const maxNamesPerPhrase = 3

// LayoutChangeSummary compares the committed layout with the staged or working
// one. A repository without commits summarizes against an empty layout.
func LayoutChangeSummary(ctx context.Context, dataDir string) (string, error) {
	st, err := GetStatus(ctx, dataDir)
	if err != nil || !st.IsRepo {
		return "", err
	}
	rel, err := layoutRelPath(dataDir, st.Root)
	if err != nil {
		return "", err
	}

	var prev model.Collection
	if b, err := git(ctx, st.Root, "show", "HEAD:"+rel); err == nil {
		// An undecodable old revision counts as empty.
		prev, _ = store.DecodeLayout([]byte(b))
	}
	next, err := store.Store{Dir: dataDir}.LoadLayout()
	if err != nil {
		return "", err
	}
	return DescribeLayoutChange(prev, next), nil
}

// DescribeLayoutChange renders a one-line summary such as
// `add Safari, Mail; folder "Dev"; reorder`.
func DescribeLayoutChange(prev, next model.Collection) string {
	var phrases []string

	prevApps := map[string]model.App{}
	for _, a := range prev.Apps() {
		prevApps[a.Location] = a
	}
	nextApps := map[string]model.App{}
	for _, a := range next.Apps() {
		nextApps[a.Location] = a
	}
	var added, removed []string
	for _, a := range next.Apps() {
		if _, ok := prevApps[a.Location]; !ok {
			added = append(added, a.Name)
		}
	}
	for _, a := range prev.Apps() {
		if _, ok := nextApps[a.Location]; !ok {
			removed = append(removed, a.Name)
		}
	}
	if len(added) > 0 {
		phrases = append(phrases, "add "+joinNames(added))
	}
	if len(removed) > 0 {
		phrases = append(phrases, "remove "+joinNames(removed))
	}

	prevFolders := folderMap(prev)
	nextFolders := folderMap(next)
	regrouped := false
	for _, it := range next {
		f, ok := it.(model.Folder)
		if !ok {
			continue
		}
		old, existed := prevFolders[f.ID]
		switch {
		case !existed:
			phrases = append(phrases, fmt.Sprintf("folder %q", f.Name))
		case old.Name != f.Name:
			phrases = append(phrases, fmt.Sprintf("rename %q to %q", old.Name, f.Name))
		}
		if existed && !sameMembers(old, f) {
			regrouped = true
		}
	}
	for _, it := range prev {
		if f, ok := it.(model.Folder); ok {
			if _, still := nextFolders[f.ID]; !still {
				phrases = append(phrases, fmt.Sprintf("dissolve %q", f.Name))
			}
		}
	}
	if regrouped {
		phrases = append(phrases, "regroup")
	}

	if len(phrases) == 0 && strings.Join(prev.IDs(), ",") != strings.Join(next.IDs(), ",") {
		phrases = append(phrases, "reorder")
	}
	if len(phrases) == 0 {
		return "update layout"
	}
	return strings.Join(phrases, "; ")
}

func joinNames(names []string) string {
	if len(names) <= maxNamesPerPhrase {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:maxNamesPerPhrase], ", ") + fmt.Sprintf(" +%d more", len(names)-maxNamesPerPhrase)
}

func folderMap(c model.Collection) map[string]model.Folder {
	out := map[string]model.Folder{}
	for _, it := range c {
		if f, ok := it.(model.Folder); ok {
			out[f.ID] = f
		}
	}
	return out
}

func sameMembers(a, b model.Folder) bool {
	if len(a.Items) != len(b.Items) {
		return false
	}
	ids := map[string]bool{}
	for _, x := range a.Items {
		ids[x.ID] = true
	}
	for _, x := range b.Items {
		if !ids[x.ID] {
			return false
		}
	}
	return true
}
