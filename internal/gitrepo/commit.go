package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"launchpad-cli/internal/store"
)

// CommitLayout stages and commits layout.json from dataDir. Usage history and
// TUI state are never staged. committed is false when dataDir is not in a
// repository or nothing changed.
func CommitLayout(ctx context.Context, dataDir string, message string) (committed bool, err error) {
	dataDir = filepath.Clean(dataDir)

	st, err := GetStatus(ctx, dataDir)
	if err != nil {
		return false, err
	}
	if !st.IsRepo {
		return false, nil
	}
	if !st.Syncable() {
		return false, errors.New("git repo has an in-progress merge/rebase; resolve first")
	}

	rel, ok, err := stageLayout(ctx, dataDir, st.Root)
	if err != nil || !ok {
		return false, err
	}

	out, err := git(ctx, st.Root, "diff", "--cached", "--name-only", "--", rel)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(out) == "" {
		return false, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fmt.Sprintf("launchpad: update layout (%s)", time.Now().UTC().Format(time.RFC3339))
	}
	if _, err := git(ctx, st.Root, "commit", "-m", msg, "--", rel); err != nil {
		return false, err
	}
	return true, nil
}

// CommitLayoutAuto commits with a message summarizing the layout change.
func CommitLayoutAuto(ctx context.Context, dataDir string) (bool, error) {
	msg := ""
	if summary, err := LayoutChangeSummary(ctx, dataDir); err == nil && summary != "" {
		msg = "launchpad: " + summary
	}
	return CommitLayout(ctx, dataDir, msg)
}

// layoutRelPath locates layout.json relative to the repository root.
func layoutRelPath(dataDir, repoRoot string) (string, error) {
	dataDir = filepath.Clean(dataDir)
	repoRoot = filepath.Clean(repoRoot)

	// Temp dirs on macOS live behind /var -> /private/var; git reports the
	// resolved root.
	if v, err := filepath.EvalSymlinks(dataDir); err == nil {
		dataDir = v
	}
	if v, err := filepath.EvalSymlinks(repoRoot); err == nil {
		repoRoot = v
	}
	rel, err := filepath.Rel(repoRoot, filepath.Join(dataDir, store.LayoutFileName))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func stageLayout(ctx context.Context, dataDir, repoRoot string) (string, bool, error) {
	if _, err := os.Stat(filepath.Join(dataDir, store.LayoutFileName)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	rel, err := layoutRelPath(dataDir, repoRoot)
	if err != nil {
		return "", false, err
	}
	if _, err := git(ctx, repoRoot, "add", "--", rel); err != nil {
		return "", false, err
	}
	return rel, true, nil
}
