package organizer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"pkt.systems/pslog"

	"launchpad-cli/internal/launch"
	"launchpad-cli/internal/model"
	"launchpad-cli/internal/mutate"
	"launchpad-cli/internal/scan"
	"launchpad-cli/internal/store"
)

type memStore struct {
	mu      sync.Mutex
	load    model.Collection
	loadErr error
	saveErr error
	saves   []model.Collection
}

func (m *memStore) LoadLayout() (model.Collection, error) {
	return m.load, m.loadErr
}

func (m *memStore) SaveLayout(c model.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, c.Clone())
	return m.saveErr
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

type memUsage struct {
	recs []store.LaunchRecord
}

func (m *memUsage) RecordLaunch(_ context.Context, rec store.LaunchRecord) error {
	m.recs = append(m.recs, rec)
	return nil
}

func quietLogger(buf *bytes.Buffer) pslog.Logger {
	return pslog.NewWithOptions(buf, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		VerboseFields: true,
		MinLevel:      pslog.DebugLevel,
	})
}

func app(id, name string) model.App {
	return model.App{ID: id, Name: name, Location: "/Applications/" + name + ".app"}
}

func ids(c model.Collection) []string {
	out := make([]string, 0, len(c))
	for _, it := range c {
		out = append(out, it.ItemID())
	}
	return out
}

func mkBundle(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "Contents"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Contents", "Info.plist"), []byte("<plist/>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestOpen_FallsBackToEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "missing", err: store.ErrNoLayout},
		{name: "corrupt", err: &store.DecodeError{Path: "layout.json", Err: errors.New("bad")}},
		{name: "io", err: errors.New("permission denied")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			o, restored := Open(context.Background(), Options{Store: &memStore{loadErr: tt.err}, Logger: quietLogger(&buf)})
			if restored {
				t.Fatalf("expected restored=false")
			}
			if got := o.Items(); got == nil || len(got) != 0 {
				t.Fatalf("expected empty collection, got %#v", got)
			}
		})
	}
}

func TestMutations_SaveAfterEachChange(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ms := &memStore{load: model.Collection{app("a", "A"), app("b", "B"), app("c", "C")}}
	o, restored := Open(context.Background(), Options{Store: ms, Logger: quietLogger(&buf), FolderName: "Stuff"})
	if !restored {
		t.Fatalf("expected restored layout")
	}

	if !o.Move("a", "c") {
		t.Fatalf("expected move to change the layout")
	}
	if got := ids(o.Items()); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("after move: %v", got)
	}
	if !o.Group("a", "b") {
		t.Fatalf("expected group to change the layout")
	}
	items := o.Items()
	f, ok := items[0].(model.Folder)
	if !ok || f.Name != "Stuff" || len(f.Items) != 2 {
		t.Fatalf("expected folder named Stuff with two apps, got %#v", items[0])
	}
	if !o.RenameFolder(f.ID, "Tools") {
		t.Fatalf("expected rename")
	}
	if !o.Dissolve(f.ID) {
		t.Fatalf("expected dissolve")
	}
	if got := ids(o.Items()); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("after dissolve: %v", got)
	}
	if ms.saveCount() != 4 {
		t.Fatalf("expected 4 saves, got %d", ms.saveCount())
	}

	// Unknown ids are silent no-ops and are not saved.
	if o.Move("nope", "a") || o.Group("a", "nope") || o.Dissolve("a") || o.RenameFolder("zzz", "x") {
		t.Fatalf("expected no-ops")
	}
	if ms.saveCount() != 4 {
		t.Fatalf("no-ops must not save, got %d saves", ms.saveCount())
	}
}

func TestMutations_SaveFailureKeepsChange(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ms := &memStore{load: model.Collection{app("a", "A"), app("b", "B")}, saveErr: errors.New("disk full")}
	o, _ := Open(context.Background(), Options{Store: ms, Logger: quietLogger(&buf)})

	if !o.Move("a", "b") {
		t.Fatalf("expected move")
	}
	if got := ids(o.Items()); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("in-memory change must stand, got %v", got)
	}
	if !strings.Contains(buf.String(), "layout save failed") {
		t.Fatalf("expected save failure to be logged, got %s", buf.String())
	}
}

func TestDrop_UsesZone(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ms := &memStore{load: model.Collection{app("a", "A"), app("b", "B"), app("c", "C")}}
	o, _ := Open(context.Background(), Options{Store: ms, Logger: quietLogger(&buf)})

	bounds := mutate.Rect{X: 0, Y: 0, W: 100, H: 100}
	action, changed := o.Drop("c", "a", bounds, mutate.Point{X: 5, Y: 50})
	if action != mutate.DropMove || !changed {
		t.Fatalf("expected move, got %s %v", action, changed)
	}
	if got := ids(o.Items()); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("after move drop: %v", got)
	}
	action, changed = o.Drop("b", "a", bounds, mutate.Point{X: 50, Y: 50})
	if action != mutate.DropGroup || !changed {
		t.Fatalf("expected group, got %s %v", action, changed)
	}
	items := o.Items()
	if len(items) != 2 || items[1].Kind() != model.ItemKindFolder {
		t.Fatalf("expected [c, folder], got %#v", items)
	}
}

func TestChanges_Signals(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	o, _ := Open(context.Background(), Options{Store: &memStore{load: model.Collection{app("a", "A"), app("b", "B")}}, Logger: quietLogger(&buf)})
	o.Move("a", "b")
	o.Move("a", "b")
	select {
	case <-o.Changes():
	default:
		t.Fatalf("expected a change signal")
	}
	select {
	case <-o.Changes():
		t.Fatalf("signals must coalesce")
	default:
	}
}

func TestReplace_ValidatesAndSaves(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ms := &memStore{}
	o, _ := Open(context.Background(), Options{Store: ms, Logger: quietLogger(&buf)})

	bad := model.Collection{app("a", "A"), app("a", "B")}
	if err := o.Replace(bad); !errors.Is(err, model.ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	good := model.Collection{app("x", "X")}
	if err := o.Replace(good); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got := ids(o.Items()); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("after replace: %v", got)
	}
	if ms.saveCount() != 1 {
		t.Fatalf("expected one save, got %d", ms.saveCount())
	}
}

func TestFirstRun_ScanThenReload(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkBundle(t, filepath.Join(root, "Calculator.app"))
	mkBundle(t, filepath.Join(root, "Safari.app"))
	mkBundle(t, filepath.Join(root, "Terminal.app"))

	var buf bytes.Buffer
	st := store.Store{Dir: t.TempDir()}
	opts := Options{Store: st, Logger: quietLogger(&buf), Scan: scan.Options{Roots: []string{root}}}

	o, restored := Open(context.Background(), opts)
	if restored {
		t.Fatalf("fresh data dir must not restore a layout")
	}
	added, err := o.Rescan(context.Background())
	if err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if added != 3 {
		t.Fatalf("expected 3 apps added, got %d", added)
	}
	if o.Loading() {
		t.Fatalf("loading must clear after the scan")
	}

	reopened, restored := Open(context.Background(), opts)
	if !restored {
		t.Fatalf("expected saved layout on second open")
	}
	want := []string{"Calculator", "Safari", "Terminal"}
	var got []string
	for _, it := range reopened.Items() {
		got = append(got, it.ItemName())
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	if !reflect.DeepEqual(reopened.Items(), o.Items()) {
		t.Fatalf("reloaded layout differs from the in-memory one")
	}

	// A rescan with nothing new changes nothing.
	added, err = reopened.Rescan(context.Background())
	if err != nil || added != 0 {
		t.Fatalf("expected idempotent rescan, got added=%d err=%v", added, err)
	}
}

func TestRefresh_CancelledMergesNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkBundle(t, filepath.Join(root, "A.app"))

	var buf bytes.Buffer
	ms := &memStore{load: model.Collection{app("x", "X")}}
	o, _ := Open(context.Background(), Options{Store: ms, Logger: quietLogger(&buf), Scan: scan.Options{Roots: []string{root}}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	select {
	case res := <-o.Refresh(ctx):
		if res.Err == nil || res.Added != 0 {
			t.Fatalf("expected cancelled result, got %#v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out")
	}
	if got := ids(o.Items()); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("cancelled scan must leave the layout alone, got %v", got)
	}
	if ms.saveCount() != 0 {
		t.Fatalf("expected no save, got %d", ms.saveCount())
	}
}

func TestLaunch_RecordsUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var launched []string
	usage := &memUsage{}
	inner := app("c", "Calc")
	o, _ := Open(context.Background(), Options{
		Store:  &memStore{load: model.Collection{app("a", "A"), model.Folder{ID: "f", Name: "F", Items: []model.App{inner}}}},
		Usage:  usage,
		Logger: quietLogger(&buf),
		Launcher: launch.Func(func(_ context.Context, location string) error {
			launched = append(launched, location)
			return nil
		}),
	})

	got, err := o.Launch(context.Background(), "c")
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if got.ID != "c" || !reflect.DeepEqual(launched, []string{inner.Location}) {
		t.Fatalf("expected folder app launched, got %#v %v", got, launched)
	}
	if len(usage.recs) != 1 || usage.recs[0].Location != inner.Location {
		t.Fatalf("expected usage record, got %#v", usage.recs)
	}

	if _, err := o.Launch(context.Background(), "f"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("folders cannot be launched, got %v", err)
	}
}

func TestLaunch_FailureIsNotRecorded(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	usage := &memUsage{}
	o, _ := Open(context.Background(), Options{
		Store:    &memStore{load: model.Collection{app("a", "A")}},
		Usage:    usage,
		Logger:   quietLogger(&buf),
		Launcher: launch.Func(func(context.Context, string) error { return errors.New("no opener") }),
	})
	if _, err := o.Launch(context.Background(), "a"); err == nil {
		t.Fatalf("expected launch error")
	}
	if len(usage.recs) != 0 {
		t.Fatalf("failed launches must not be recorded")
	}
}
