package tui

import (
	"context"
	"time"

	"launchpad-cli/internal/gitrepo"
	"launchpad-cli/internal/logx"
	"launchpad-cli/internal/organizer"
	"launchpad-cli/internal/scan"
	"launchpad-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Organizer *organizer.Organizer
	Store     store.Store
	Debounce  time.Duration

	// Roots are watched for changes; empty disables watching.
	Roots     []string
	BundleExt string

	// DataDir enables debounced git commits of the layout when it lives in a
	// repository.
	DataDir string
}

// Run shows the grid until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	var watchCh <-chan struct{}
	if len(opts.Roots) > 0 {
		w, err := scan.Watch(ctx, opts.Roots, opts.BundleExt, 0)
		if err != nil {
			logx.Ctx(ctx).Warn("root watcher unavailable", "err", err)
		} else {
			defer w.Close()
			watchCh = w.Changes()
		}
	}

	m := newModel(ctx, opts)
	m.watchCh = watchCh
	defer m.search.Close()

	if opts.DataDir != "" && gitrepo.AutoCommitEnabled() {
		if gs, err := gitrepo.GetStatus(ctx, opts.DataDir); err == nil && gs.IsRepo {
			m.committer = gitrepo.NewDebouncedCommitter(gitrepo.DebouncedCommitterOpts{
				DataDir: opts.DataDir,
				Sync:    gitrepo.AutoSyncOptsFromEnv(),
				Logger:  logx.Ctx(ctx),
			})
			defer m.committer.Flush(context.WithoutCancel(ctx))
		}
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(gridModel); ok {
		fm.saveState()
	}
	return err
}
