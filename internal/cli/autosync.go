package cli

import (
	"context"
	"time"

	"launchpad-cli/internal/gitrepo"
	"launchpad-cli/internal/logx"

	"github.com/spf13/cobra"
)

// autoSyncLayoutBestEffort commits the layout after a mutating command when
// the data dir is tracked by git. Failures only warn.
func autoSyncLayoutBestEffort(cmd *cobra.Command, app *App) {
	if !gitrepo.AutoCommitEnabled() {
		return
	}
	dir, err := resolveDir(app)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
	defer cancel()

	gs, err := gitrepo.GetStatus(ctx, dir)
	if err != nil || !gs.Syncable() {
		return
	}
	log := logx.Ctx(ctx).With("dir", dir)
	committed, pushed, err := gitrepo.AutoCommitAndPush(ctx, dir, gitrepo.AutoSyncOptsFromEnv())
	if err != nil {
		log.Warn("layout auto-sync failed", "err", err)
		return
	}
	log.Debug("layout auto-sync", "committed", committed, "pushed", pushed)
}
