package cli

import (
	"strings"

	"launchpad-cli/internal/gitrepo"
	"launchpad-cli/internal/store"

	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Keep the layout in a git repository",
		Long: `Keep the layout in a git repository.

When the data dir lives inside a git repository, every command that changes
the layout commits layout.json with a summary of the change. Usage history and
TUI state are never committed. Set LAUNCHPAD_AUTOCOMMIT=0 to turn this off and
LAUNCHPAD_AUTOPUSH=1 to push after each commit.`,
	}
	cmd.AddCommand(newSyncStatusCmd(app))
	cmd.AddCommand(newSyncInitCmd(app))
	cmd.AddCommand(newSyncCommitCmd(app))
	cmd.AddCommand(newSyncPushCmd(app))
	cmd.AddCommand(newSyncPullCmd(app))
	return cmd
}

func newSyncStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show git status for the data dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := gitrepo.GetStatus(cmd.Context(), dir)
			if err != nil {
				return writeErr(cmd, err)
			}

			hints := []string{}
			meta := map[string]any{}
			switch {
			case !st.IsRepo:
				hints = append(hints, "launchpad sync init")
			case st.Unmerged || st.InProgress:
				hints = append(hints, "git status")
			case st.Behind > 0:
				hints = append(hints, "launchpad sync pull")
			case st.Ahead > 0:
				hints = append(hints, "launchpad sync push")
			}
			if st.IsRepo {
				remotes, err := gitrepo.ListRemotes(cmd.Context(), dir)
				if err == nil {
					meta["remotes"] = remotes
				}
			}
			return writeOut(cmd, app, envelope{Data: st, Meta: meta, Hints: hints})
		},
	}
}

func newSyncInitCmd(app *App) *cobra.Command {
	var (
		remoteName string
		remoteURL  string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Make the data dir a git repository and commit the layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			st, err := gitrepo.GetStatus(ctx, dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !st.IsRepo {
				if err := (store.Store{Dir: dir}).Ensure(); err != nil {
					return writeErr(cmd, err)
				}
				if err := gitrepo.Init(ctx, dir); err != nil {
					return writeErr(cmd, err)
				}
			}
			if strings.TrimSpace(remoteURL) != "" {
				if err := gitrepo.SetRemoteURL(ctx, dir, remoteName, remoteURL); err != nil {
					return writeErr(cmd, err)
				}
			}
			committed, err := gitrepo.CommitLayoutAuto(ctx, dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err = gitrepo.GetStatus(ctx, dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: st, Meta: map[string]any{"committed": committed}})
		},
	}
	cmd.Flags().StringVar(&remoteName, "remote", "origin", "Remote name")
	cmd.Flags().StringVar(&remoteURL, "remote-url", "", "Remote URL to add or update")
	return cmd
}

func newSyncCommitCmd(app *App) *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit layout.json now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var committed bool
			if strings.TrimSpace(message) != "" {
				committed, err = gitrepo.CommitLayout(cmd.Context(), dir, message)
			} else {
				committed, err = gitrepo.CommitLayoutAuto(cmd.Context(), dir)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{"committed": committed}})
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message (default: summary of the change)")
	return cmd
}

func newSyncPushCmd(app *App) *cobra.Command {
	var setUpstream bool
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push committed layout changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := gitrepo.Push(cmd.Context(), dir, setUpstream); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{"pushed": true}})
		},
	}
	cmd.Flags().BoolVarP(&setUpstream, "set-upstream", "u", false, "Push HEAD to origin and track it")
	return cmd
}

func newSyncPullCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Pull layout changes with rebase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := gitrepo.PullRebase(cmd.Context(), dir); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{"pulled": true}})
		},
	}
}
