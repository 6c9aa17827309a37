package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Status describes the git repository holding a data dir, if any.
type Status struct {
	IsRepo bool   `json:"isRepo"`
	Root   string `json:"root,omitempty"`

	Branch   string `json:"branch,omitempty"`
	Upstream string `json:"upstream,omitempty"`

	// Dirty counts untracked files too; LayoutChanged only looks at
	// layout.json, the one file launchpad commits.
	Dirty         bool `json:"dirty"`
	LayoutChanged bool `json:"layoutChanged"`
	Unmerged      bool `json:"unmerged"`

	InProgress     bool   `json:"inProgress"`
	InProgressKind string `json:"inProgressKind,omitempty"`

	Ahead  int `json:"ahead,omitempty"`
	Behind int `json:"behind,omitempty"`
}

// Syncable reports whether a commit can be made without user intervention.
func (s Status) Syncable() bool {
	return s.IsRepo && !s.Unmerged && !s.InProgress
}

// GetStatus inspects the repository holding dataDir. A dir outside any
// repository yields IsRepo=false and no error.
func GetStatus(ctx context.Context, dataDir string) (Status, error) {
	root, err := git(ctx, dataDir, "rev-parse", "--show-toplevel")
	if err != nil {
		return Status{}, nil
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return Status{}, errors.New("git rev-parse returned empty root")
	}

	branch, _ := git(ctx, dataDir, "rev-parse", "--abbrev-ref", "HEAD")
	upstream, _ := git(ctx, dataDir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	st := Status{
		IsRepo:   true,
		Root:     root,
		Branch:   strings.TrimSpace(branch),
		Upstream: strings.TrimSpace(upstream),
	}

	porcelain, _ := git(ctx, root, "status", "--porcelain=v1")
	st.Dirty, st.Unmerged = parsePorcelain(porcelain)
	if rel, err := layoutRelPath(dataDir, root); err == nil {
		out, _ := git(ctx, root, "status", "--porcelain=v1", "--", rel)
		st.LayoutChanged, _ = parsePorcelain(out)
	}

	if ip, err := DetectInProgress(dataDir); err == nil {
		st.InProgress, st.InProgressKind = ip.InProgress, ip.Kind
	}

	if st.Upstream != "" {
		if counts, err := git(ctx, root, "rev-list", "--left-right", "--count", "HEAD...@{u}"); err == nil {
			st.Ahead, st.Behind, _ = parseAheadBehind(counts)
		}
	}
	return st, nil
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}

func parsePorcelain(out string) (dirty bool, unmerged bool) {
	for _, ln := range strings.Split(out, "\n") {
		if len(ln) < 2 || ln[:2] == "  " {
			continue
		}
		dirty = true
		unmerged = unmerged || isUnmergedXY(ln[:2])
	}
	return dirty, unmerged
}

// isUnmergedXY matches the porcelain conflict codes: DD, AA or any U.
func isUnmergedXY(xy string) bool {
	return xy == "DD" || xy == "AA" || strings.Contains(xy, "U")
}

// parseAheadBehind reads "<ahead>\t<behind>" from rev-list --left-right --count.
func parseAheadBehind(out string) (ahead int, behind int, ok bool) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(fields[0])
	b, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}
