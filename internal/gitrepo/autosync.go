package gitrepo

import (
	"context"
	"os"
	"strconv"
	"strings"
)

func boolEnvDefault(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	switch strings.ToLower(v) {
	case "y", "yes", "on":
		return true
	case "n", "no", "off":
		return false
	default:
		return def
	}
}

// AutoCommitEnabled controls whether layout changes are committed when the
// data dir lives in a git repository. Default: true. Disable with
// LAUNCHPAD_AUTOCOMMIT=0.
func AutoCommitEnabled() bool {
	return boolEnvDefault("LAUNCHPAD_AUTOCOMMIT", true)
}

// AutoPushEnabled controls pushing after an automatic commit. Default: false.
func AutoPushEnabled() bool {
	return boolEnvDefault("LAUNCHPAD_AUTOPUSH", false)
}

// AutoPullRebaseEnabled retries a rejected push after `git pull --rebase`.
// Default: true.
func AutoPullRebaseEnabled() bool {
	return boolEnvDefault("LAUNCHPAD_AUTOPULL_REBASE", true)
}

type AutoSyncOpts struct {
	AutoPush       bool
	AutoPullRebase bool
}

func AutoSyncOptsFromEnv() AutoSyncOpts {
	return AutoSyncOpts{
		AutoPush:       AutoPushEnabled(),
		AutoPullRebase: AutoPullRebaseEnabled(),
	}
}

// AutoCommitAndPush commits the layout and, when enabled and an upstream
// exists, pushes it.
func AutoCommitAndPush(ctx context.Context, dataDir string, opts AutoSyncOpts) (committed bool, pushed bool, err error) {
	committed, err = CommitLayoutAuto(ctx, dataDir)
	if err != nil || !committed || !opts.AutoPush {
		return committed, false, err
	}

	st, stErr := GetStatus(ctx, dataDir)
	if stErr != nil || !st.Syncable() || st.Upstream == "" {
		return committed, false, nil
	}

	if err := Push(ctx, st.Root, false); err != nil {
		if opts.AutoPullRebase && IsNonFastForwardPushErr(err) {
			if PullRebase(ctx, st.Root) == nil && Push(ctx, st.Root, false) == nil {
				return committed, true, nil
			}
		}
		return committed, false, err
	}
	return committed, true, nil
}
