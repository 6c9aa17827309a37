package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"launchpad-cli/internal/logx"
	"launchpad-cli/internal/model"
)

const (
	DefaultBundleExt = ".app"
	DefaultManifest  = "Contents/Info.plist"
)

type Options struct {
	// Roots are walked in order; a bundle reachable from two roots is reported
	// once, from the first.
	Roots []string

	// BundleExt marks a directory as an application bundle (".app").
	BundleExt string

	// Manifest must exist inside a bundle for it to count.
	Manifest string

	// Locale selects the collation for the result order. Empty means English.
	Locale string
}

func (o Options) bundleExt() string {
	ext := strings.TrimSpace(o.BundleExt)
	if ext == "" {
		return DefaultBundleExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (o Options) manifest() string {
	m := strings.TrimSpace(o.Manifest)
	if m == "" {
		m = DefaultManifest
	}
	return filepath.FromSlash(m)
}

// Result is what a background scan reports, exactly once.
type Result struct {
	Apps []model.App
	Err  error
}

// Start runs Scan on its own goroutine. The returned channel yields one Result
// and is then closed.
func Start(ctx context.Context, opts Options) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		apps, err := Scan(ctx, opts)
		ch <- Result{Apps: apps, Err: err}
	}()
	return ch
}

// Scan walks every root depth-first and returns the application bundles found,
// each with a fresh id, sorted by display name.
//
// Unreadable or missing roots and subtrees are logged and skipped. The only
// error returned is the context's, in which case the apps are nil.
func Scan(ctx context.Context, opts Options) ([]model.App, error) {
	log := logx.Ctx(ctx)
	ext := opts.bundleExt()
	manifest := opts.manifest()

	seen := map[string]bool{}
	var apps []model.App

	add := func(path string) {
		key := canonical(path)
		if seen[key] {
			return
		}
		seen[key] = true
		name := strings.TrimSuffix(filepath.Base(path), ext)
		apps = append(apps, model.NewApp(name, path))
	}

	for _, root := range opts.Roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		rlog := logx.WithRoot(log, root)
		walkRoot := root
		if fi, err := os.Lstat(root); err == nil && fi.Mode()&fs.ModeSymlink != 0 {
			if resolved, err := filepath.EvalSymlinks(root); err == nil {
				walkRoot = resolved
			}
		}

		err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && path == walkRoot {
					rlog.Debug("scan root missing")
				} else {
					logx.WithLocation(rlog, path).Warn("scan skipped unreadable entry", "err", err)
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if path != walkRoot && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), ext) {
				return nil
			}

			switch {
			case d.IsDir():
				if isBundle(path, manifest) {
					add(path)
				}
				return filepath.SkipDir
			case d.Type()&fs.ModeSymlink != 0:
				if fi, err := os.Stat(path); err == nil && fi.IsDir() && isBundle(path, manifest) {
					add(path)
				}
			}
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			rlog.Warn("scan root failed", "err", err)
		}
	}

	SortApps(apps, opts.Locale)
	return apps, nil
}

func isBundle(path, manifest string) bool {
	fi, err := os.Stat(filepath.Join(path, manifest))
	return err == nil && !fi.IsDir()
}

func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

// SortApps orders apps by display name the way a file browser does: case
// insensitive, digits compared by value, accents by locale.
func SortApps(apps []model.App, locale string) {
	tag := language.English
	if strings.TrimSpace(locale) != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	col := collate.New(tag, collate.IgnoreCase, collate.Numeric)
	sort.SliceStable(apps, func(i, j int) bool {
		if c := col.CompareString(apps[i].Name, apps[j].Name); c != 0 {
			return c < 0
		}
		return apps[i].Location < apps[j].Location
	})
}
