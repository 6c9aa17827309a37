package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"launchpad-cli/internal/format"
	"launchpad-cli/internal/launch"
	"launchpad-cli/internal/logx"
	"launchpad-cli/internal/organizer"
	"launchpad-cli/internal/scan"
	"launchpad-cli/internal/store"
	"launchpad-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Roots      []string
	PrettyJSON bool
	Format     string

	// Launcher overrides how bundles are started (tests).
	Launcher launch.Launcher

	cfg *store.GlobalConfig

	saveCountStart int64
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "launchpad",
		Short:        "Launchpad: organize and launch your applications",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive grid
  launchpad

  # Scriptable commands
  launchpad list
  launchpad group Safari Mail
  launchpad search term

  # Rescan with a one-off root
  launchpad scan --root ~/Applications
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive grid.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.saveCountStart = store.LayoutSaveCount()
		return format.Validate(app.Format)
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		// The TUI runs its own debounced committer.
		if !cmd.HasParent() {
			return nil
		}
		if store.LayoutSaveCount() <= app.saveCountStart {
			return nil
		}
		if strings.HasPrefix(cmd.CommandPath(), "launchpad sync") {
			return nil
		}
		autoSyncLayoutBestEffort(cmd, app)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("LAUNCHPAD_DIR", ""), "Data dir holding layout.json and usage.sqlite (default: config dataDir or ~/.launchpad)")
	cmd.PersistentFlags().StringArrayVar(&app.Roots, "root", nil, "Scan root (repeatable; overrides configured roots for this run)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LAUNCHPAD_FORMAT", "json"), "Output format (json|edn|text)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newLaunchCmd(app))
	cmd.AddCommand(newScanCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newDissolveCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newGroupCmd(app))
	cmd.AddCommand(newDropCmd(app))
	cmd.AddCommand(newRecentCmd(app))
	cmd.AddCommand(newUsageCmd(app))
	cmd.AddCommand(newLayoutCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func loadConfig(app *App) (*store.GlobalConfig, error) {
	if app.cfg != nil {
		return app.cfg, nil
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	app.cfg = cfg
	return cfg, nil
}

// resolveDir picks the data dir: --dir / LAUNCHPAD_DIR, then config dataDir,
// then the config dir.
func resolveDir(app *App) (string, error) {
	if strings.TrimSpace(app.Dir) != "" {
		return app.Dir, nil
	}
	cfg, err := loadConfig(app)
	if err != nil {
		return "", err
	}
	dir, err := cfg.EffectiveDataDir()
	if err != nil {
		return "", err
	}
	app.Dir = dir
	return dir, nil
}

func scanOptions(app *App, cfg *store.GlobalConfig) scan.Options {
	roots := cfg.EffectiveRoots()
	if len(app.Roots) > 0 {
		roots = app.Roots
	}
	return scan.Options{
		Roots:     roots,
		BundleExt: cfg.EffectiveBundleExt(),
		Manifest:  cfg.EffectiveManifest(),
		Locale:    cfg.EffectiveLocale(),
	}
}

// firstRun reports the scan openOrganizer ran because no layout was saved.
type firstRun struct {
	scanned bool
	added   int
}

// newOrganizer builds the organizer every front end uses.
func newOrganizer(ctx context.Context, app *App, cfg *store.GlobalConfig, dir string) (*organizer.Organizer, store.Store, bool) {
	st := store.Store{Dir: dir}
	launcher := app.Launcher
	if launcher == nil {
		launcher = launch.ExecLauncher{}
	}
	o, restored := organizer.Open(ctx, organizer.Options{
		Store:      st,
		Usage:      st,
		Launcher:   launcher,
		Scan:       scanOptions(app, cfg),
		FolderName: cfg.EffectiveFolderName(),
		Logger:     logx.Ctx(ctx),
	})
	return o, st, restored
}

// openOrganizer loads the layout. Without a usable saved layout it scans
// before returning so commands always see the installed apps.
func openOrganizer(ctx context.Context, app *App) (*organizer.Organizer, store.Store, firstRun, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, store.Store{}, firstRun{}, err
	}
	dir, err := resolveDir(app)
	if err != nil {
		return nil, store.Store{}, firstRun{}, err
	}
	o, st, restored := newOrganizer(ctx, app, cfg, dir)
	if restored {
		return o, st, firstRun{}, nil
	}
	added, err := o.Rescan(ctx)
	if err != nil {
		return nil, st, firstRun{}, err
	}
	return o, st, firstRun{scanned: true, added: added}, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	dir, err := resolveDir(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	o, st, _ := newOrganizer(ctx, app, cfg, dir)
	opts := scanOptions(app, cfg)
	return tui.Run(ctx, tui.Options{
		Organizer: o,
		Store:     st,
		Debounce:  cfg.Debounce(),
		Roots:     opts.Roots,
		BundleExt: opts.BundleExt,
		DataDir:   dir,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envelope is the shape of every command's output.
type envelope struct {
	Data  any            `json:"data"`
	Meta  map[string]any `json:"meta,omitempty"`
	Hints []string       `json:"_hints,omitempty"`
}

func (e envelope) TextLines() []string {
	if t, ok := e.Data.(format.Texter); ok {
		return t.TextLines()
	}
	b, err := json.MarshalIndent(e.Data, "", "  ")
	if err != nil {
		return []string{fmt.Sprintf("%v", e.Data)}
	}
	return strings.Split(string(b), "\n")
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
