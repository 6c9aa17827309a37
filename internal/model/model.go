package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ItemKind string

const (
	ItemKindApp    ItemKind = "app"
	ItemKindFolder ItemKind = "folder"
)

// DefaultFolderName is used for folders synthesized by grouping two apps.
const DefaultFolderName = "Untitled"

// Item is one top-level entry of the launcher layout.
//
// The interface is sealed: App and Folder are the only implementations, so a
// type switch over the two is always exhaustive.
type Item interface {
	ItemID() string
	ItemName() string
	Kind() ItemKind

	sealed()
}

// App references an installed application bundle. Location is the bundle path;
// two apps with the same Location are the same application.
type App struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Folder groups apps. Folders are flat: they never contain other folders.
type Folder struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []App  `json:"items"`
}

func (a App) ItemID() string   { return a.ID }
func (a App) ItemName() string { return a.Name }
func (a App) Kind() ItemKind   { return ItemKindApp }
func (App) sealed()            {}

func (f Folder) ItemID() string   { return f.ID }
func (f Folder) ItemName() string { return f.Name }
func (f Folder) Kind() ItemKind   { return ItemKindFolder }
func (Folder) sealed()            {}

func NewID() string {
	return uuid.NewString()
}

func NewApp(name, location string) App {
	return App{ID: NewID(), Name: name, Location: location}
}

func NewFolder(name string, apps []App) Folder {
	if strings.TrimSpace(name) == "" {
		name = DefaultFolderName
	}
	return Folder{ID: NewID(), Name: name, Items: append([]App(nil), apps...)}
}

// SameItem reports identity equality. Two folders with identical contents but
// different ids are different items.
func SameItem(a, b Item) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ItemID() == b.ItemID()
}

// AppsOf returns the apps an item contributes when it is flattened: the app
// itself, or the folder contents in order.
func AppsOf(it Item) []App {
	switch v := it.(type) {
	case App:
		return []App{v}
	case Folder:
		return append([]App(nil), v.Items...)
	default:
		return nil
	}
}

// Collection is the ordered top-level layout.
type Collection []Item

// Clone returns a copy that shares no folder item slices with c.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, it := range c {
		if f, ok := it.(Folder); ok {
			f.Items = append([]App(nil), f.Items...)
			out[i] = f
			continue
		}
		out[i] = it
	}
	return out
}

// IndexOf returns the top-level index of id, or -1.
func (c Collection) IndexOf(id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i, it := range c {
		if it.ItemID() == id {
			return i
		}
	}
	return -1
}

// FindApp resolves an app id at the top level or inside any folder.
func (c Collection) FindApp(id string) (App, bool) {
	id = strings.TrimSpace(id)
	for _, it := range c {
		switch v := it.(type) {
		case App:
			if v.ID == id {
				return v, true
			}
		case Folder:
			for _, a := range v.Items {
				if a.ID == id {
					return a, true
				}
			}
		}
	}
	return App{}, false
}

// Apps flattens the collection into every app it holds, top-level apps and
// folder contents in layout order.
func (c Collection) Apps() []App {
	var out []App
	for _, it := range c {
		out = append(out, AppsOf(it)...)
	}
	return out
}

// Locations returns the set of bundle locations already present anywhere in c.
func (c Collection) Locations() map[string]bool {
	out := map[string]bool{}
	for _, a := range c.Apps() {
		out[a.Location] = true
	}
	return out
}

// IDs returns every id in c, nested ones included, in layout order.
func (c Collection) IDs() []string {
	var out []string
	for _, it := range c {
		out = append(out, it.ItemID())
		if f, ok := it.(Folder); ok {
			for _, a := range f.Items {
				out = append(out, a.ID)
			}
		}
	}
	return out
}

var ErrDuplicateID = errors.New("duplicate id")

// Validate checks the collection invariants: every id present and unique,
// every app has a location.
func Validate(c Collection) error {
	seen := map[string]bool{}
	check := func(id string) error {
		if strings.TrimSpace(id) == "" {
			return errors.New("item with empty id")
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = true
		return nil
	}
	for _, it := range c {
		switch v := it.(type) {
		case App:
			if err := check(v.ID); err != nil {
				return err
			}
			if strings.TrimSpace(v.Location) == "" {
				return fmt.Errorf("app %s has no location", v.ID)
			}
		case Folder:
			if err := check(v.ID); err != nil {
				return err
			}
			for _, a := range v.Items {
				if err := check(a.ID); err != nil {
					return err
				}
				if strings.TrimSpace(a.Location) == "" {
					return fmt.Errorf("app %s has no location", a.ID)
				}
			}
		default:
			return fmt.Errorf("unknown item type %T", it)
		}
	}
	return nil
}
