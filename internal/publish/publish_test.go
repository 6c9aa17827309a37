package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"launchpad-cli/internal/model"
	"launchpad-cli/internal/store"
)

func sampleLayout() model.Collection {
	return model.Collection{
		model.App{ID: "a-1", Name: "Safari", Location: "/Applications/Safari.app"},
		model.Folder{ID: "f-1", Name: "Dev_Tools", Items: []model.App{
			{ID: "a-2", Name: "Terminal", Location: "/Applications/Utilities/Terminal.app"},
			{ID: "a-3", Name: "Xcode", Location: "/Applications/Xcode.app"},
		}},
	}
}

func TestRenderLayoutMarkdown_OrderAndUsage(t *testing.T) {
	t.Parallel()

	md := RenderLayoutMarkdown(sampleLayout(), RenderOptions{
		Usage: []store.UsageCount{{Location: "/Applications/Xcode.app", Name: "Xcode", Count: 4}},
	})

	for _, want := range []string{
		"# Launchpad",
		"- Items: 2",
		"- Apps: 3",
		"- Folders: 1",
		"1. Safari · `/Applications/Safari.app`",
		`2. :file_folder: **Dev\_Tools** (2 apps)`,
		"(4 launches)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
	if strings.Index(md, "Terminal") > strings.Index(md, "Xcode") {
		t.Fatalf("folder contents out of order:\n%s", md)
	}
	if strings.Contains(md, "Safari · `/Applications/Safari.app` (") {
		t.Fatalf("apps without launches must not show a count:\n%s", md)
	}
}

func TestRenderLayoutMarkdown_Empty(t *testing.T) {
	t.Parallel()

	md := RenderLayoutMarkdown(nil, RenderOptions{Title: "Mine"})
	if !strings.HasPrefix(md, "# Mine\n") || !strings.Contains(md, "No applications yet") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
}

func TestRenderHTML_ConvertsAndEscapes(t *testing.T) {
	t.Parallel()

	page, err := RenderHTML("A <b> title", "1. :file_folder: **Dev**\n\n<script>alert(1)</script>\n")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(page, "<strong>Dev</strong>") {
		t.Fatalf("expected rendered markdown, got:\n%s", page)
	}
	if strings.Contains(page, "<script>") {
		t.Fatalf("raw html must not pass through:\n%s", page)
	}
	if !strings.Contains(page, "<title>A &lt;b&gt; title</title>") {
		t.Fatalf("expected escaped title, got:\n%s", page)
	}
	if strings.Contains(page, ":file_folder:") {
		t.Fatalf("expected emoji shortcode to be rendered:\n%s", page)
	}
}

func TestWriteLayout_WritesAndRefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	res, err := WriteLayout(sampleLayout(), dir, WriteOptions{HTML: true})
	if err != nil {
		t.Fatalf("WriteLayout: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("expected md and html written, got %v", res.Written)
	}
	for _, p := range res.Written {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}

	if _, err := WriteLayout(sampleLayout(), dir, WriteOptions{}); err == nil {
		t.Fatalf("expected refusal without overwrite")
	}
	if _, err := WriteLayout(sampleLayout(), dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := WriteLayout(sampleLayout(), "  ", WriteOptions{}); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
