package mutate

import (
	"strings"

	"launchpad-cli/internal/model"
)

// The operations below never modify their input. Each returns the resulting
// collection and whether anything changed; an id that does not resolve (or
// resolves to the wrong kind) is a no-op, not an error.

// RenameFolder sets the name of the folder with the given id.
func RenameFolder(c model.Collection, folderID, name string) (model.Collection, bool) {
	idx := c.IndexOf(folderID)
	if idx < 0 {
		return c, false
	}
	f, ok := c[idx].(model.Folder)
	if !ok {
		return c, false
	}
	if f.Name == name {
		return c, false
	}
	out := c.Clone()
	f.Name = name
	f.Items = append([]model.App(nil), f.Items...)
	out[idx] = f
	return out, true
}

// Dissolve replaces a folder by its apps, in folder order, at the folder's index.
func Dissolve(c model.Collection, folderID string) (model.Collection, bool) {
	idx := c.IndexOf(folderID)
	if idx < 0 {
		return c, false
	}
	f, ok := c[idx].(model.Folder)
	if !ok {
		return c, false
	}
	out := make(model.Collection, 0, len(c)-1+len(f.Items))
	out = append(out, c[:idx].Clone()...)
	for _, a := range f.Items {
		out = append(out, a)
	}
	out = append(out, c[idx+1:].Clone()...)
	return out, true
}

// Move removes srcID from the top level and reinserts it in the slot dstID held
// before the removal. dstID is resolved again by id after the removal.
func Move(c model.Collection, srcID, dstID string) (model.Collection, bool) {
	srcID = strings.TrimSpace(srcID)
	dstID = strings.TrimSpace(dstID)
	if srcID == dstID {
		return c, false
	}
	from := c.IndexOf(srcID)
	to := c.IndexOf(dstID)
	if from < 0 || to < 0 {
		return c, false
	}

	out := c.Clone()
	moved := out[from]
	out = append(out[:from], out[from+1:]...)

	to = out.IndexOf(dstID)
	if to < 0 {
		return c, false
	}
	// src takes the slot dst held before the removal: in front of dst when moving
	// backwards, behind it when moving forwards.
	if from <= to {
		to++
	}
	out = append(out, nil)
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, true
}

// Group drops srcID onto dstID.
//
// The source is removed first and the destination is re-resolved by id. A folder
// destination receives the source's apps at its end and keeps its id and name;
// an app destination is replaced, in place, by a new folder holding [dst, src...].
// Folders are never nested: a folder source contributes its apps.
func Group(c model.Collection, srcID, dstID, folderName string) (model.Collection, bool) {
	srcID = strings.TrimSpace(srcID)
	dstID = strings.TrimSpace(dstID)
	if srcID == dstID {
		return c, false
	}
	srcIdx := c.IndexOf(srcID)
	if srcIdx < 0 || c.IndexOf(dstID) < 0 {
		return c, false
	}

	out := c.Clone()
	src := out[srcIdx]
	out = append(out[:srcIdx], out[srcIdx+1:]...)

	dstIdx := out.IndexOf(dstID)
	if dstIdx < 0 {
		// Cannot happen with a single writer; put the source back and bail.
		return c, false
	}

	incoming := model.AppsOf(src)
	switch dst := out[dstIdx].(type) {
	case model.Folder:
		dst.Items = append(append([]model.App(nil), dst.Items...), incoming...)
		out[dstIdx] = dst
	case model.App:
		apps := make([]model.App, 0, 1+len(incoming))
		apps = append(apps, dst)
		apps = append(apps, incoming...)
		out[dstIdx] = model.NewFolder(folderName, apps)
	default:
		return c, false
	}
	return out, true
}
