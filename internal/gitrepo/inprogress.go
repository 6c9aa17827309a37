package gitrepo

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type InProgress struct {
	InProgress bool   `json:"inProgress"`
	Kind       string `json:"kind,omitempty"` // merge|rebase|cherry-pick|revert
}

// DetectInProgress looks for merge or rebase marker files without running git.
// It gates automatic layout commits and feeds doctor.
func DetectInProgress(dir string) (InProgress, error) {
	gitDir, ok, err := FindGitDir(dir)
	if err != nil || !ok {
		return InProgress{}, err
	}
	markers := []struct {
		kind  string
		paths []string
	}{
		{kind: "merge", paths: []string{"MERGE_HEAD"}},
		{kind: "rebase", paths: []string{"rebase-apply", "rebase-merge"}},
		{kind: "cherry-pick", paths: []string{"CHERRY_PICK_HEAD"}},
		{kind: "revert", paths: []string{"REVERT_HEAD"}},
	}
	for _, m := range markers {
		for _, p := range m.paths {
			if exists(filepath.Join(gitDir, p)) {
				return InProgress{InProgress: true, Kind: m.kind}, nil
			}
		}
	}
	return InProgress{}, nil
}

// FindGitDir walks up from start to the git directory (/repo/.git, or the
// target of a worktree .git file).
func FindGitDir(start string) (gitDir string, ok bool, err error) {
	if strings.TrimSpace(start) == "" {
		return "", false, errors.New("empty start dir")
	}
	dir, err := filepath.Abs(strings.TrimSpace(start))
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, ".git")
		st, statErr := os.Stat(candidate)
		switch {
		case statErr == nil && st.IsDir():
			return candidate, true, nil
		case statErr == nil:
			target, err := readGitdirFile(candidate)
			if err != nil {
				return "", false, err
			}
			if target != "" {
				return target, true, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// readGitdirFile parses "gitdir: <path>" files; relative paths resolve
// against the file's directory.
func readGitdirFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(ln), "gitdir:") {
			break
		}
		p := strings.TrimSpace(ln[len("gitdir:"):])
		if p == "" {
			return "", nil
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(path), p)
		}
		return filepath.Clean(p), nil
	}
	return "", sc.Err()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
