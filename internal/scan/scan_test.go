package scan

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"launchpad-cli/internal/model"
)

func mkBundle(t *testing.T, dir string, withManifest bool) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "Contents"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if withManifest {
		if err := os.WriteFile(filepath.Join(dir, "Contents", "Info.plist"), []byte("<plist/>"), 0o644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}
	}
	return dir
}

func names(apps []model.App) []string {
	out := make([]string, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.Name)
	}
	return out
}

func TestScan_FindsBundlesAndSorts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkBundle(t, filepath.Join(root, "safari.app"), true)
	mkBundle(t, filepath.Join(root, "Calculator.app"), true)
	mkBundle(t, filepath.Join(root, "App 10.app"), true)
	mkBundle(t, filepath.Join(root, "App 9.app"), true)
	mkBundle(t, filepath.Join(root, "Utilities", "Terminal.app"), true)

	apps, err := Scan(context.Background(), Options{Roots: []string{root}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"App 9", "App 10", "Calculator", "safari", "Terminal"}
	if got := names(apps); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for _, a := range apps {
		if a.ID == "" {
			t.Fatalf("app %q has no id", a.Name)
		}
	}
	if apps[4].Location != filepath.Join(root, "Utilities", "Terminal.app") {
		t.Fatalf("unexpected location %q", apps[4].Location)
	}
}

func TestScan_FilterRules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkBundle(t, filepath.Join(root, "Good.app"), true)
	mkBundle(t, filepath.Join(root, "NoManifest.app"), false)
	mkBundle(t, filepath.Join(root, ".Hidden.app"), true)
	mkBundle(t, filepath.Join(root, ".hidden-dir", "Inside.app"), true)
	// Bundles are never descended into.
	mkBundle(t, filepath.Join(root, "Good.app", "Contents", "Helpers", "Helper.app"), true)
	if err := os.WriteFile(filepath.Join(root, "plain.app"), []byte("file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	apps, err := Scan(context.Background(), Options{Roots: []string{root}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got := names(apps); !reflect.DeepEqual(got, []string{"Good"}) {
		t.Fatalf("expected only Good, got %v", got)
	}
}

func TestScan_DedupsSymlinksAndOverlappingRoots(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	real := mkBundle(t, filepath.Join(root, "Real.app"), true)
	if err := os.Symlink(real, filepath.Join(root, "Alias.app")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	other := t.TempDir()
	linked := filepath.Join(other, "Linked.app")
	if err := os.Symlink(real, linked); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	apps, err := Scan(context.Background(), Options{Roots: []string{root, root, other}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected one app, got %v", names(apps))
	}
}

func TestScan_SymlinkedBundleIsAccepted(t *testing.T) {
	t.Parallel()

	store := t.TempDir()
	real := mkBundle(t, filepath.Join(store, "Tool.app"), true)
	root := t.TempDir()
	link := filepath.Join(root, "Tool.app")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	apps, err := Scan(context.Background(), Options{Roots: []string{root}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(apps) != 1 || apps[0].Location != link || apps[0].Name != "Tool" {
		t.Fatalf("expected symlinked bundle at %s, got %#v", link, apps)
	}
}

func TestScan_MissingRootIsEmpty(t *testing.T) {
	t.Parallel()

	apps, err := Scan(context.Background(), Options{Roots: []string{filepath.Join(t.TempDir(), "nope")}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(apps) != 0 {
		t.Fatalf("expected no apps, got %v", names(apps))
	}
}

func TestScan_CustomExtensionAndManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "Thing.bundle")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	mkBundle(t, filepath.Join(root, "Other.app"), true)

	apps, err := Scan(context.Background(), Options{Roots: []string{root}, BundleExt: "bundle", Manifest: "manifest.json"})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got := names(apps); !reflect.DeepEqual(got, []string{"Thing"}) {
		t.Fatalf("expected Thing, got %v", got)
	}
}

func TestScan_CancelledReturnsNil(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkBundle(t, filepath.Join(root, "A.app"), true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	apps, err := Scan(ctx, Options{Roots: []string{root}})
	if err == nil {
		t.Fatalf("expected context error")
	}
	if apps != nil {
		t.Fatalf("cancelled scan must not report apps, got %v", names(apps))
	}
}

func TestStart_DeliversExactlyOnce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkBundle(t, filepath.Join(root, "A.app"), true)

	ch := Start(context.Background(), Options{Roots: []string{root}})
	select {
	case res, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed without result")
		}
		if res.Err != nil || len(res.Apps) != 1 {
			t.Fatalf("unexpected result %#v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for scan")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after one result")
	}
}

func TestSortApps_Locale(t *testing.T) {
	t.Parallel()

	apps := []model.App{
		{Name: "zebra", Location: "/z"},
		{Name: "Äpple", Location: "/a2"},
		{Name: "apple", Location: "/a1"},
	}
	SortApps(apps, "en")
	want := []string{"apple", "Äpple", "zebra"}
	if got := names(apps); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}
