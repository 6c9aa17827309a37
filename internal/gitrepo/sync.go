package gitrepo

import (
	"context"
	"strings"
)

func PullRebase(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "pull", "--rebase")
	return err
}

// Push pushes the current branch. With setUpstream it pushes HEAD to origin
// and tracks it, for a freshly initialised data dir.
func Push(ctx context.Context, dir string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u", "origin", "HEAD")
	}
	_, err := git(ctx, dir, args...)
	return err
}

// IsNonFastForwardPushErr reports a push rejected because the remote has
// commits the local branch lacks.
func IsNonFastForwardPushErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "non-fast-forward") || strings.Contains(msg, "fetch first")
}
