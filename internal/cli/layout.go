package cli

import (
	"launchpad-cli/internal/logx"
	"launchpad-cli/internal/publish"
	"launchpad-cli/internal/store"

	"github.com/spf13/cobra"
)

func newLayoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Export, import or publish the saved layout",
	}
	cmd.AddCommand(newLayoutExportCmd(app))
	cmd.AddCommand(newLayoutImportCmd(app))
	cmd.AddCommand(newLayoutPublishCmd(app))
	return cmd
}

func newLayoutExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Copy layout.json to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (store.Store{Dir: dir}).ExportLayout(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{"path": args[0]}})
		},
	}
}

func newLayoutImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the layout with a previously exported document",
		Long: `Replace the layout with a previously exported document. The document is
validated first; a rejected import leaves the current layout untouched. Apps
installed since the export are appended by the next scan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := store.ReadLayoutFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			o, _, _, err := openOrganizer(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := o.Replace(c); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{
				Data: newLayoutView(o.Items()),
				Meta: map[string]any{"count": len(c)},
			})
		},
	}
}

func newLayoutPublishCmd(app *App) *cobra.Command {
	var (
		to        string
		title     string
		withHTML  bool
		overwrite bool
		withUsage bool
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the layout as markdown (and optionally HTML)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, st, _, err := openOrganizer(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			opt := publish.WriteOptions{
				Overwrite: overwrite,
				HTML:      withHTML,
				Render:    publish.RenderOptions{Title: title},
			}
			if withUsage {
				counts, err := st.UsageCounts(cmd.Context())
				if err != nil {
					// Publish without counts.
					logx.Ctx(cmd.Context()).Warn("usage unavailable for publish", "err", err)
				}
				opt.Render.Usage = counts
			}
			res, err := publish.WriteLayout(o.Items(), to, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: res})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().StringVar(&title, "title", "", "Document title (default: Launchpad)")
	cmd.Flags().BoolVar(&withHTML, "html", false, "Also write layout.html")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&withUsage, "usage", true, "Include launch counts")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
