package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"launchpad-cli/internal/model"
)

// LayoutFileName is the layout document inside a data dir.
const LayoutFileName = "layout.json"

var layoutSaves atomic.Int64

// LayoutSaveCount reports how many layouts this process has saved.
func LayoutSaveCount() int64 {
	return layoutSaves.Load()
}

// ErrNoLayout reports that no layout has been saved yet. It wraps os.ErrNotExist.
var ErrNoLayout = fmt.Errorf("no saved layout: %w", os.ErrNotExist)

// DecodeError reports a layout document that exists but cannot be used.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode layout %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// layoutRecord is the on-disk form of one top-level item. Unknown fields are
// ignored when decoding.
type layoutRecord struct {
	Kind     model.ItemKind `json:"kind"`
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Location string         `json:"location,omitempty"`
	Items    []layoutRecord `json:"items,omitempty"`
}

type Store struct {
	Dir string
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) LayoutPath() string {
	return filepath.Join(s.Dir, LayoutFileName)
}

func encodeLayout(c model.Collection) ([]byte, error) {
	recs := make([]layoutRecord, 0, len(c))
	for _, it := range c {
		switch v := it.(type) {
		case model.App:
			recs = append(recs, appRecord(v))
		case model.Folder:
			items := make([]layoutRecord, 0, len(v.Items))
			for _, a := range v.Items {
				items = append(items, appRecord(a))
			}
			recs = append(recs, layoutRecord{Kind: model.ItemKindFolder, ID: v.ID, Name: v.Name, Items: items})
		default:
			return nil, fmt.Errorf("encode layout: unknown item type %T", it)
		}
	}
	return json.MarshalIndent(recs, "", "  ")
}

func appRecord(a model.App) layoutRecord {
	return layoutRecord{Kind: model.ItemKindApp, ID: a.ID, Name: a.Name, Location: a.Location}
}

func decodeLayout(b []byte) (model.Collection, error) {
	var recs []layoutRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, err
	}
	out := make(model.Collection, 0, len(recs))
	for i, r := range recs {
		switch r.Kind {
		case model.ItemKindApp:
			out = append(out, model.App{ID: r.ID, Name: r.Name, Location: r.Location})
		case model.ItemKindFolder:
			apps := make([]model.App, 0, len(r.Items))
			for j, ar := range r.Items {
				if ar.Kind != "" && ar.Kind != model.ItemKindApp {
					return nil, fmt.Errorf("record %d item %d: folders may only contain apps (got %q)", i, j, ar.Kind)
				}
				apps = append(apps, model.App{ID: ar.ID, Name: ar.Name, Location: ar.Location})
			}
			out = append(out, model.Folder{ID: r.ID, Name: r.Name, Items: apps})
		default:
			return nil, fmt.Errorf("record %d: unknown kind %q", i, r.Kind)
		}
	}
	if err := model.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadLayout reads the persisted layout. A missing document yields ErrNoLayout;
// an unreadable or invalid one yields a *DecodeError.
func (s Store) LoadLayout() (model.Collection, error) {
	path := s.LayoutPath()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoLayout
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, &DecodeError{Path: path, Err: errors.New("empty document")}
	}
	c, err := decodeLayout(b)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return c, nil
}

// SaveLayout writes the layout atomically. The previous document is kept as
// layout.json.bak when it exists.
func (s Store) SaveLayout(c model.Collection) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := encodeLayout(c)
	if err != nil {
		return err
	}
	path := s.LayoutPath()
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(s.Dir, LayoutFileName+".bak.*.tmp", path+".bak", prev, 0o644)
	}
	if err := atomicWriteFile(s.Dir, LayoutFileName+".*.tmp", path, b, 0o644); err != nil {
		return err
	}
	layoutSaves.Add(1)
	return nil
}

// DecodeLayout decodes and validates a layout document.
func DecodeLayout(b []byte) (model.Collection, error) {
	return decodeLayout(b)
}

// ReadLayoutFile decodes a layout document at an arbitrary path (used by import).
func ReadLayoutFile(path string) (model.Collection, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := decodeLayout(b)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return c, nil
}

// ExportLayout copies the saved layout document to dest, creating its parent
// dirs.
func (s Store) ExportLayout(dest string) error {
	b, err := os.ReadFile(s.LayoutPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoLayout
		}
		return err
	}
	dest = filepath.Clean(dest)
	if dest == "." {
		return errors.New("export layout: missing destination")
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, filepath.Base(dest)+".*.tmp", dest, b, 0o644)
}
