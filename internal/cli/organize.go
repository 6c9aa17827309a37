package cli

import (
	"launchpad-cli/internal/mutate"
	"launchpad-cli/internal/organizer"

	"github.com/spf13/cobra"
)

type changeResult struct {
	Changed bool       `json:"changed"`
	Action  string     `json:"action,omitempty"`
	Items   layoutView `json:"items"`
}

func writeChange(cmd *cobra.Command, app *App, o *organizer.Organizer, action string, changed bool) error {
	return writeOut(cmd, app, envelope{Data: changeResult{
		Changed: changed,
		Action:  action,
		Items:   newLayoutView(o.Items()),
	}})
}

// twoRefCmd builds a command taking <src> <dst> top-level references.
func twoRefCmd(app *App, use, short, action string, op func(o *organizer.Organizer, src, dst string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, _, err := openOrganizer(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := o.Items()
			src, err := resolveTop(c, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dst, err := resolveTop(c, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeChange(cmd, app, o, action, op(o, src, dst))
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	return twoRefCmd(app, "move <src> <dst>", "Move src into dst's position", string(mutate.DropMove),
		func(o *organizer.Organizer, src, dst string) bool { return o.Move(src, dst) })
}

func newGroupCmd(app *App) *cobra.Command {
	return twoRefCmd(app, "group <src> <dst>", "Drop src onto dst: make a folder, or add to dst's folder", string(mutate.DropGroup),
		func(o *organizer.Organizer, src, dst string) bool { return o.Group(src, dst) })
}

func newRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <folder> <name>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, _, err := openOrganizer(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := resolveTop(o.Items(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeChange(cmd, app, o, "rename", o.RenameFolder(id, args[1]))
		},
	}
	return cmd
}

func newDissolveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dissolve <folder>",
		Short: "Replace a folder by its apps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, _, err := openOrganizer(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := resolveTop(o.Items(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeChange(cmd, app, o, "dissolve", o.Dissolve(id))
		},
	}
	return cmd
}

func newDropCmd(app *App) *cobra.Command {
	var x, y, w, h float64

	cmd := &cobra.Command{
		Use:   "drop <src> <dst>",
		Short: "Drop src at a point on dst's tile: the center groups, the margin moves",
		Long: `Drop src onto the tile of dst. The point (--x, --y) is relative to the tile's
top-left corner and the tile is --w by --h. A point in the central 60% of the
tile groups; anywhere else moves.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, _, err := openOrganizer(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := o.Items()
			src, err := resolveTop(c, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dst, err := resolveTop(c, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			action, changed := o.Drop(src, dst, mutate.Rect{W: w, H: h}, mutate.Point{X: x, Y: y})
			return writeChange(cmd, app, o, string(action), changed)
		},
	}

	cmd.Flags().Float64Var(&x, "x", 50, "Drop point x within the tile")
	cmd.Flags().Float64Var(&y, "y", 50, "Drop point y within the tile")
	cmd.Flags().Float64Var(&w, "w", 100, "Tile width")
	cmd.Flags().Float64Var(&h, "h", 100, "Tile height")
	return cmd
}
