package cli

import (
	"fmt"
	"time"

	"launchpad-cli/internal/store"

	"github.com/spf13/cobra"
)

type recentView []store.LaunchRecord

func (r recentView) TextLines() []string {
	lines := make([]string, 0, len(r))
	for _, rec := range r {
		lines = append(lines, fmt.Sprintf("%s  %s  %s", rec.At.Local().Format(time.DateTime), rec.Name, rec.Location))
	}
	return lines
}

type usageView []store.UsageCount

func (u usageView) TextLines() []string {
	lines := make([]string, 0, len(u))
	for _, c := range u {
		lines = append(lines, fmt.Sprintf("%5d  %s  (last %s)", c.Count, c.Name, c.LastAt.Local().Format(time.DateOnly)))
	}
	return lines
}

func newRecentCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent launches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			recs, err := store.Store{Dir: dir}.RecentLaunches(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{
				Data: recentView(recs),
				Meta: map[string]any{"count": len(recs), "limit": limit},
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of launches (0 = all)")
	return cmd
}

func newUsageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Launch counts per app, most used first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			counts, err := store.Store{Dir: dir}.UsageCounts(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: usageView(counts)})
		},
	}
	return cmd
}
