package cli

import (
	"errors"
	"fmt"

	"launchpad-cli/internal/logx"
	"launchpad-cli/internal/scan"

	"github.com/spf13/cobra"
)

type scanResult struct {
	Added int `json:"added"`
	Items int `json:"items"`
}

func (r scanResult) TextLines() []string {
	return []string{fmt.Sprintf("%d new apps, %d items", r.Added, r.Items)}
}

func newScanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the roots now and append newly installed apps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, first, err := openOrganizer(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			added := first.added
			if !first.scanned {
				added, err = o.Rescan(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, envelope{Data: scanResult{Added: added, Items: len(o.Items())}})
		},
	}
	return cmd
}

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rescan whenever a root changes (until interrupted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, _, _, err := openOrganizer(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			opts := scanOptions(app, cfg)
			w, err := scan.Watch(ctx, opts.Roots, opts.BundleExt, 0)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer w.Close()
			logx.Ctx(ctx).Info("watching scan roots", "roots", len(opts.Roots))

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-w.Changes():
					added, err := o.Rescan(ctx)
					if err != nil {
						if errors.Is(err, ctx.Err()) {
							return nil
						}
						return writeErr(cmd, err)
					}
					if added == 0 {
						continue
					}
					if err := writeOut(cmd, app, envelope{Data: scanResult{Added: added, Items: len(o.Items())}}); err != nil {
						return err
					}
				}
			}
		},
	}
	return cmd
}
