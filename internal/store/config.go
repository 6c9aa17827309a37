package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	DefaultBundleExt  = ".app"
	DefaultManifest   = "Contents/Info.plist"
	DefaultDebounceMs = 500
)

type GlobalConfig struct {
	// Roots are the directories scanned for application bundles, in order.
	Roots []string `json:"roots,omitempty"`

	// BundleExt is the directory suffix that marks an application bundle.
	BundleExt string `json:"bundleExt,omitempty"`

	// Manifest is the path, relative to a bundle, that must exist for the bundle
	// to count as an application.
	Manifest string `json:"manifest,omitempty"`

	// DebounceMs is the search quiescence window.
	DebounceMs int `json:"debounceMs,omitempty"`

	// FolderName names folders created by grouping two apps.
	FolderName string `json:"folderName,omitempty"`

	// Locale drives the collation of scan results (BCP 47, e.g. "en", "sv").
	// Empty means: derive from LC_ALL / LANG.
	Locale string `json:"locale,omitempty"`

	// DataDir holds layout.json, usage.sqlite and tui_state.json.
	// Empty means the config dir itself.
	DataDir string `json:"dataDir,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.launchpad).
	if v := strings.TrimSpace(os.Getenv("LAUNCHPAD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".launchpad"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultRoots mirrors where macOS keeps application bundles.
func DefaultRoots() []string {
	roots := []string{"/Applications", "/System/Applications"}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, "Applications"))
	}
	return roots
}

// LoadConfig reads config.json. A missing file is not an error: the zero config
// is returned and callers read effective values through the accessors.
func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep a copy of the previous config; ignore errors.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func (c *GlobalConfig) EffectiveRoots() []string {
	if c == nil || len(c.Roots) == 0 {
		return DefaultRoots()
	}
	out := make([]string, 0, len(c.Roots))
	for _, r := range c.Roots {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, filepath.Clean(r))
	}
	return out
}

func (c *GlobalConfig) EffectiveBundleExt() string {
	if c == nil || strings.TrimSpace(c.BundleExt) == "" {
		return DefaultBundleExt
	}
	ext := strings.TrimSpace(c.BundleExt)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (c *GlobalConfig) EffectiveManifest() string {
	if c == nil || strings.TrimSpace(c.Manifest) == "" {
		return DefaultManifest
	}
	return filepath.FromSlash(strings.TrimSpace(c.Manifest))
}

func (c *GlobalConfig) Debounce() time.Duration {
	if c == nil || c.DebounceMs <= 0 {
		return DefaultDebounceMs * time.Millisecond
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}

func (c *GlobalConfig) EffectiveFolderName() string {
	if c == nil || strings.TrimSpace(c.FolderName) == "" {
		return ""
	}
	return strings.TrimSpace(c.FolderName)
}

// EffectiveLocale returns the configured locale or one derived from the
// environment ("en_US.UTF-8" -> "en-US").
func (c *GlobalConfig) EffectiveLocale() string {
	if c != nil && strings.TrimSpace(c.Locale) != "" {
		return strings.TrimSpace(c.Locale)
	}
	for _, k := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		v := strings.TrimSpace(os.Getenv(k))
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}

// EffectiveDataDir resolves where layout state lives.
func (c *GlobalConfig) EffectiveDataDir() (string, error) {
	if c != nil && strings.TrimSpace(c.DataDir) != "" {
		return filepath.Clean(strings.TrimSpace(c.DataDir)), nil
	}
	return ConfigDir()
}

// AddRoot appends root unless it is already configured. Starting from the
// default roots when none are set keeps the defaults in effect.
func (c *GlobalConfig) AddRoot(root string) bool {
	root = filepath.Clean(strings.TrimSpace(root))
	if root == "" || root == "." {
		return false
	}
	roots := c.EffectiveRoots()
	if slices.Contains(roots, root) {
		return false
	}
	c.Roots = append(roots, root)
	return true
}

func (c *GlobalConfig) RemoveRoot(root string) bool {
	root = filepath.Clean(strings.TrimSpace(root))
	roots := c.EffectiveRoots()
	idx := slices.Index(roots, root)
	if idx < 0 {
		return false
	}
	c.Roots = slices.Delete(roots, idx, idx+1)
	return true
}
