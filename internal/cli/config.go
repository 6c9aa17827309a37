package cli

import (
	"fmt"
	"strconv"
	"strings"

	"launchpad-cli/internal/model"
	"launchpad-cli/internal/store"

	"github.com/spf13/cobra"
)

type effectiveConfig struct {
	Roots      []string `json:"roots"`
	BundleExt  string   `json:"bundleExt"`
	Manifest   string   `json:"manifest"`
	DebounceMs int64    `json:"debounceMs"`
	FolderName string   `json:"folderName"`
	Locale     string   `json:"locale"`
	DataDir    string   `json:"dataDir"`
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit ~/.launchpad/config.json",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	cmd.AddCommand(newConfigRootCmd(app, "add-root", "Add a scan root", (*store.GlobalConfig).AddRoot))
	cmd.AddCommand(newConfigRootCmd(app, "remove-root", "Remove a scan root", (*store.GlobalConfig).RemoveRoot))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored and the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			folder := cfg.EffectiveFolderName()
			if folder == "" {
				folder = model.DefaultFolderName
			}
			opts := scanOptions(app, cfg)
			return writeOut(cmd, app, envelope{
				Data: map[string]any{
					"stored": cfg,
					"effective": effectiveConfig{
						Roots:      opts.Roots,
						BundleExt:  opts.BundleExt,
						Manifest:   opts.Manifest,
						DebounceMs: cfg.Debounce().Milliseconds(),
						FolderName: folder,
						Locale:     opts.Locale,
						DataDir:    dir,
					},
				},
				Meta: map[string]any{"path": path},
			})
		},
	}
}

var configKeys = []string{"roots", "bundleExt", "manifest", "debounceMs", "folderName", "locale", "dataDir"}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value (keys: " + strings.Join(configKeys, ", ") + "; empty value resets)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			key, value := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			switch strings.ToLower(key) {
			case "roots":
				cfg.Roots = nil
				for _, r := range strings.Split(value, ",") {
					if strings.TrimSpace(r) != "" {
						cfg.Roots = append(cfg.Roots, strings.TrimSpace(r))
					}
				}
			case "bundleext":
				cfg.BundleExt = value
			case "manifest":
				cfg.Manifest = value
			case "debouncems":
				if value == "" {
					cfg.DebounceMs = 0
					break
				}
				n, err := strconv.Atoi(value)
				if err != nil || n < 0 {
					return writeErr(cmd, fmt.Errorf("debounceMs must be a non-negative integer: %q", value))
				}
				cfg.DebounceMs = n
			case "foldername":
				cfg.FolderName = value
			case "locale":
				cfg.Locale = value
			case "datadir":
				cfg.DataDir = value
			default:
				return writeErr(cmd, fmt.Errorf("unknown config key: %q (want one of %s)", key, strings.Join(configKeys, ", ")))
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: cfg})
		},
	}
}

func newConfigRootCmd(app *App, use, short string, edit func(*store.GlobalConfig, string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <dir>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			changed := edit(cfg, args[0])
			if changed {
				if err := store.SaveConfig(cfg); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{
				"changed": changed,
				"roots":   cfg.EffectiveRoots(),
			}})
		},
	}
}
