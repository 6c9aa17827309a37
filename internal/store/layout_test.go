package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"launchpad-cli/internal/model"
)

func sampleLayout() model.Collection {
	return model.Collection{
		model.Folder{ID: "f-1", Name: "Utils", Items: []model.App{
			{ID: "a-1", Name: "Calculator", Location: "/Applications/Calculator.app"},
			{ID: "a-2", Name: "Terminal", Location: "/Applications/Utilities/Terminal.app"},
		}},
		model.App{ID: "a-3", Name: "Safari", Location: "/Applications/Safari.app"},
		model.Folder{ID: "f-2", Name: "Empty", Items: []model.App{}},
	}
}

func TestLayout_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	want := sampleLayout()
	if err := s.SaveLayout(want); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	got, err := s.LoadLayout()
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestLayout_MissingFileIsErrNoLayout(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	_, err := s.LoadLayout()
	if !errors.Is(err, ErrNoLayout) {
		t.Fatalf("expected ErrNoLayout, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ErrNoLayout must wrap os.ErrNotExist")
	}
}

func TestLayout_CorruptDocumentIsDecodeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "{nope"},
		{name: "empty", doc: "   "},
		{name: "unknown kind", doc: `[{"kind":"widget","id":"x","name":"X"}]`},
		{name: "nested folder", doc: `[{"kind":"folder","id":"f","name":"F","items":[{"kind":"folder","id":"g","name":"G"}]}]`},
		{name: "duplicate ids", doc: `[{"kind":"app","id":"a","name":"A","location":"/a.app"},{"kind":"app","id":"a","name":"B","location":"/b.app"}]`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Store{Dir: t.TempDir()}
			if err := os.WriteFile(s.LayoutPath(), []byte(tt.doc), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := s.LoadLayout()
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %T %v", err, err)
			}
		})
	}
}

func TestLayout_ToleratesUnknownFields(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	doc := `[
	  {"kind":"app","id":"a-1","name":"Safari","location":"/Applications/Safari.app","pinned":true},
	  {"kind":"folder","id":"f-1","name":"Dev","color":"blue","items":[
	    {"kind":"app","id":"a-2","name":"Xcode","location":"/Applications/Xcode.app","icon":"x.icns"}
	  ]}
	]`
	if err := os.WriteFile(s.LayoutPath(), []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := s.LoadLayout()
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	want := model.Collection{
		model.App{ID: "a-1", Name: "Safari", Location: "/Applications/Safari.app"},
		model.Folder{ID: "f-1", Name: "Dev", Items: []model.App{{ID: "a-2", Name: "Xcode", Location: "/Applications/Xcode.app"}}},
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
}

func TestLayout_EncodedRecords(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	c := model.Collection{
		model.App{ID: "a-1", Name: "Calculator", Location: "/Applications/Calculator.app"},
		model.App{ID: "a-2", Name: "Safari", Location: "/Applications/Safari.app"},
		model.App{ID: "a-3", Name: "Terminal", Location: "/Applications/Terminal.app"},
	}
	if err := s.SaveLayout(c); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	b, err := os.ReadFile(s.LayoutPath())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var recs []map[string]any
	if err := json.Unmarshal(b, &recs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i, r := range recs {
		if r["kind"] != "app" {
			t.Fatalf("record %d: kind=%v", i, r["kind"])
		}
		if _, ok := r["items"]; ok {
			t.Fatalf("record %d: app records must omit items", i)
		}
	}
	if recs[1]["name"] != "Safari" || recs[1]["location"] != "/Applications/Safari.app" {
		t.Fatalf("unexpected record: %#v", recs[1])
	}
}

func TestLayout_SaveKeepsBackup(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	first := model.Collection{model.App{ID: "a", Name: "A", Location: "/a.app"}}
	second := model.Collection{model.App{ID: "b", Name: "B", Location: "/b.app"}}
	if err := s.SaveLayout(first); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	if err := s.SaveLayout(second); err != nil {
		t.Fatalf("save 2: %v", err)
	}
	bak, err := ReadLayoutFile(s.LayoutPath() + ".bak")
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !reflect.DeepEqual(bak, first) {
		t.Fatalf("backup should hold the previous layout, got %#v", bak)
	}
	matches, _ := filepath.Glob(filepath.Join(s.Dir, "*.tmp"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestLayout_ExportAndReadBack(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	dest := filepath.Join(t.TempDir(), "nested", "export.json")
	if err := s.ExportLayout(dest); !errors.Is(err, ErrNoLayout) {
		t.Fatalf("expected ErrNoLayout before first save, got %v", err)
	}
	if err := s.SaveLayout(sampleLayout()); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	if err := s.ExportLayout(dest); err != nil {
		t.Fatalf("ExportLayout: %v", err)
	}
	got, err := ReadLayoutFile(dest)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if !reflect.DeepEqual(got, sampleLayout()) {
		t.Fatalf("exported layout differs: %#v", got)
	}
}

func TestLayout_ExportRejectsEmptyDestination(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	if err := s.SaveLayout(sampleLayout()); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	if err := s.ExportLayout(""); err == nil {
		t.Fatalf("expected error for empty destination")
	}
}
