package cli

import (
	"launchpad-cli/internal/gitrepo"
	"launchpad-cli/internal/store"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the saved layout, installed bundles and usage history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			report := store.DoctorLayout(cmd.Context(), dir, cfg.EffectiveManifest())
			if ip, err := gitrepo.DetectInProgress(dir); err == nil && ip.InProgress {
				report.Issues = append(report.Issues, store.DoctorIssue{
					Level:   store.DoctorIssueLevelWarn,
					Code:    "git_" + ip.Kind + "_in_progress",
					Message: "the data dir's repository has an unfinished " + ip.Kind + "; layout changes are not committed until it is resolved",
					Path:    dir,
				})
			}

			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
			}
			hints := []string{
				"launchpad scan",
				"launchpad layout import <file>",
			}

			if err := writeOut(cmd, app, envelope{Data: report, Meta: meta, Hints: hints}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
