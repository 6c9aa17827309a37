package search

import (
	"reflect"
	"testing"
	"time"

	"launchpad-cli/internal/model"
)

func sample() model.Collection {
	return model.Collection{
		model.App{ID: "a", Name: "Safari", Location: "/Applications/Safari.app"},
		model.App{ID: "b", Name: "Terminal", Location: "/Applications/Terminal.app"},
		model.Folder{ID: "f", Name: "Utilities", Items: []model.App{
			{ID: "c", Name: "Safari Technology Preview", Location: "/Applications/STP.app"},
		}},
		model.App{ID: "d", Name: "STRASSE", Location: "/Applications/Strasse.app"},
	}
}

func ids(c model.Collection) []string {
	out := make([]string, 0, len(c))
	for _, it := range c {
		out = append(out, it.ItemID())
	}
	return out
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty matches all", query: "", want: []string{"a", "b", "f", "d"}},
		{name: "case insensitive", query: "SAF", want: []string{"a"}},
		{name: "folder name", query: "util", want: []string{"f"}},
		{name: "folder contents not searched", query: "technology", want: []string{}},
		{name: "unicode folding", query: "straße", want: []string{"d"}},
		{name: "no match", query: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(Match(sample(), tt.query)); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Match(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestIndex_CoalescesBurst(t *testing.T) {
	t.Parallel()

	ix := New(200 * time.Millisecond)
	defer ix.Close()

	for _, q := range []string{"a", "ap", "app"} {
		ix.SetQuery(q)
		time.Sleep(5 * time.Millisecond)
	}
	if got := ix.Query(); got != "app" {
		t.Fatalf("raw query: got %q", got)
	}
	if got := ix.Debounced(); got != "" {
		t.Fatalf("debounced query must lag, got %q", got)
	}

	select {
	case got := <-ix.Updates():
		if got != "app" {
			t.Fatalf("expected a single update for %q, got %q", "app", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for debounced query")
	}
	select {
	case extra := <-ix.Updates():
		t.Fatalf("expected one update, got extra %q", extra)
	case <-time.After(150 * time.Millisecond):
	}
	if got := ix.Debounced(); got != "app" {
		t.Fatalf("debounced: got %q", got)
	}
}

func TestIndex_EmptyQueryIsImmediate(t *testing.T) {
	t.Parallel()

	ix := New(time.Hour)
	defer ix.Close()

	ix.SetQuery("saf")
	ix.SetQuery("")
	if got := ix.Debounced(); got != "" {
		t.Fatalf("expected empty debounced query, got %q", got)
	}
	if got := ids(ix.Filter(sample())); len(got) != 4 {
		t.Fatalf("empty query must show everything, got %v", got)
	}
}

func TestIndex_ClearCancelsPending(t *testing.T) {
	t.Parallel()

	ix := New(30 * time.Millisecond)
	defer ix.Close()

	ix.SetQuery("saf")
	ix.SetQuery("")
	time.Sleep(100 * time.Millisecond)
	if got := ix.Debounced(); got != "" {
		t.Fatalf("cleared query must not be overwritten by a stale timer, got %q", got)
	}
}

func TestIndex_CloseStopsPending(t *testing.T) {
	t.Parallel()

	ix := New(20 * time.Millisecond)
	ix.SetQuery("term")
	ix.Close()
	time.Sleep(80 * time.Millisecond)
	if got := ix.Debounced(); got != "" {
		t.Fatalf("expected no update after Close, got %q", got)
	}
}
