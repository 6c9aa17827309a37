package cli

import (
	"fmt"
	"strings"

	"launchpad-cli/internal/model"
)

type itemView struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Name     string     `json:"name"`
	Location string     `json:"location,omitempty"`
	Items    []itemView `json:"items,omitempty"`
}

type layoutView []itemView

func newItemView(it model.Item) itemView {
	switch v := it.(type) {
	case model.App:
		return itemView{ID: v.ID, Kind: string(model.ItemKindApp), Name: v.Name, Location: v.Location}
	case model.Folder:
		out := itemView{ID: v.ID, Kind: string(model.ItemKindFolder), Name: v.Name, Items: []itemView{}}
		for _, a := range v.Items {
			out.Items = append(out.Items, newItemView(a))
		}
		return out
	default:
		return itemView{ID: it.ItemID(), Name: it.ItemName()}
	}
}

func newLayoutView(c model.Collection) layoutView {
	out := make(layoutView, 0, len(c))
	for _, it := range c {
		out = append(out, newItemView(it))
	}
	return out
}

func (l layoutView) TextLines() []string {
	var lines []string
	for _, it := range l {
		lines = append(lines, it.textLines("")...)
	}
	return lines
}

func (v itemView) textLines(indent string) []string {
	if v.Kind == string(model.ItemKindFolder) {
		lines := []string{fmt.Sprintf("%s[%s] %s (%d)  %s", indent, v.Kind, v.Name, len(v.Items), v.ID)}
		for _, a := range v.Items {
			lines = append(lines, a.textLines(indent+"  ")...)
		}
		return lines
	}
	return []string{fmt.Sprintf("%s%s  %s  %s", indent, v.Name, v.ID, v.Location)}
}

// resolveTop maps a user reference (id or name) to a top-level id. An
// unmatched reference is returned as is so the operation becomes a no-op.
func resolveTop(c model.Collection, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if c.IndexOf(ref) >= 0 {
		return ref, nil
	}
	var matches []string
	for _, it := range c {
		if strings.EqualFold(it.ItemName(), ref) {
			matches = append(matches, it.ItemID())
		}
	}
	switch len(matches) {
	case 0:
		return ref, nil
	case 1:
		return matches[0], nil
	default:
		return "", ambiguousError{ref: ref, matches: matches}
	}
}

// resolveApp maps a reference to an app anywhere in the layout.
func resolveApp(c model.Collection, ref string) (model.App, error) {
	ref = strings.TrimSpace(ref)
	if a, ok := c.FindApp(ref); ok {
		return a, nil
	}
	var matches []model.App
	for _, a := range c.Apps() {
		if strings.EqualFold(a.Name, ref) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return model.App{}, errNotFound("app", ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, 0, len(matches))
		for _, a := range matches {
			ids = append(ids, a.ID)
		}
		return model.App{}, ambiguousError{ref: ref, matches: ids}
	}
}
