package cli

import (
	"launchpad-cli/internal/model"
	"launchpad-cli/internal/search"

	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var flat bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the layout (apps and folders, in order)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, _, err := openOrganizer(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := o.Items()
			if flat {
				apps := model.Collection{}
				for _, a := range c.Apps() {
					apps = append(apps, a)
				}
				c = apps
			}
			return writeOut(cmd, app, envelope{
				Data: newLayoutView(c),
				Meta: map[string]any{"count": len(c)},
			})
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, "List every app, folder contents included, without folders")
	return cmd
}

func newSearchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Filter top-level items by name (case-insensitive substring)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, _, err := openOrganizer(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			matches := search.Match(o.Items(), query)
			return writeOut(cmd, app, envelope{
				Data: newLayoutView(matches),
				Meta: map[string]any{"query": query, "count": len(matches)},
			})
		},
	}
	return cmd
}

func newLaunchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch <app>",
		Short: "Start an app by id or name and record the launch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, _, err := openOrganizer(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := resolveApp(o.Items(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			launched, err := o.Launch(cmd.Context(), a.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: newItemView(launched)})
		},
	}
	return cmd
}
