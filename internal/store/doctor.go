package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"launchpad-cli/internal/model"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

var ErrDoctorIssuesFound = errors.New("doctor found errors")

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Path    string           `json:"path,omitempty"`
	ItemID  string           `json:"itemId,omitempty"`
}

type DoctorReport struct {
	Items  int           `json:"items"`
	Apps   int           `json:"apps"`
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// DoctorLayout checks the saved layout and the usage database in dir. manifest
// is the file a bundle must contain, relative to the bundle.
func DoctorLayout(ctx context.Context, dir, manifest string) DoctorReport {
	st := Store{Dir: dir}
	report := DoctorReport{Issues: []DoctorIssue{}}
	add := func(level DoctorIssueLevel, code, msg, path, id string) {
		report.Issues = append(report.Issues, DoctorIssue{Level: level, Code: code, Message: msg, Path: path, ItemID: id})
	}

	c, err := st.LoadLayout()
	switch {
	case errors.Is(err, ErrNoLayout):
		add(DoctorIssueLevelWarn, "layout_missing", "no saved layout; the next run starts from a scan", st.LayoutPath(), "")
	case err != nil:
		add(DoctorIssueLevelError, "layout_invalid", err.Error(), st.LayoutPath(), "")
		if _, berr := ReadLayoutFile(st.LayoutPath() + ".bak"); berr == nil {
			add(DoctorIssueLevelWarn, "layout_backup_available", "a readable backup exists; restore it with `launchpad layout import`", st.LayoutPath()+".bak", "")
		}
	}
	report.Items = len(c)

	seen := map[string]string{}
	for _, it := range c {
		if f, ok := it.(model.Folder); ok && len(f.Items) == 0 {
			add(DoctorIssueLevelWarn, "folder_empty", fmt.Sprintf("folder %q holds no apps", f.Name), "", f.ID)
		}
		for _, a := range model.AppsOf(it) {
			report.Apps++
			if prev, dup := seen[a.Location]; dup {
				add(DoctorIssueLevelError, "location_duplicate", fmt.Sprintf("%s is also listed as %s", a.Location, prev), a.Location, a.ID)
				continue
			}
			seen[a.Location] = a.ID
			if !bundleExists(a.Location, manifest) {
				add(DoctorIssueLevelWarn, "bundle_missing", fmt.Sprintf("%s is not installed anymore", a.Name), a.Location, a.ID)
			}
		}
	}

	if _, err := os.Stat(st.usagePath()); err == nil {
		if _, err := st.RecentLaunches(ctx, 1); err != nil {
			add(DoctorIssueLevelError, "usage_unreadable", err.Error(), st.usagePath(), "")
		}
	}
	return report
}

func bundleExists(location, manifest string) bool {
	if manifest == "" {
		manifest = DefaultManifest
	}
	fi, err := os.Stat(filepath.Join(location, filepath.FromSlash(manifest)))
	return err == nil && !fi.IsDir()
}
