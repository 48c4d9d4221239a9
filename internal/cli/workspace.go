package cli

import (
	"os"
	"path/filepath"
	"sort"

	"plantdeck/internal/store"

	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Workspace management (default workspace is recommended unless told otherwise)",
	}

	cmd.AddCommand(newWorkspaceUseCmd(app))
	cmd.AddCommand(newWorkspaceCurrentCmd(app))
	cmd.AddCommand(newWorkspaceListCmd(app))

	return cmd
}

func newWorkspaceUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Set the current workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (store.Store{Dir: dir}).Ensure(); err != nil {
				return writeErr(cmd, err)
			}

			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.CurrentWorkspace = name
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}

			app.Workspace = name
			app.Dir = dir
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"workspace": name, "dir": dir},
			})
		},
	}
	return cmd
}

func newWorkspaceCurrentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the current workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			name := cfg.CurrentWorkspace
			if app.Workspace != "" {
				name = app.Workspace
			}
			if name == "" {
				name = "default"
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"workspace": name, "dir": dir},
			})
		},
	}
	return cmd
}

func newWorkspaceListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workspaces under the config dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := store.ConfigDir()
			if err != nil {
				return writeErr(cmd, err)
			}
			entries, err := os.ReadDir(filepath.Join(cfgDir, "workspaces"))
			if err != nil && !os.IsNotExist(err) {
				return writeErr(cmd, err)
			}
			names := []string{}
			for _, e := range entries {
				if e.IsDir() {
					names = append(names, e.Name())
				}
			}
			sort.Strings(names)

			cfg, _ := store.LoadConfig()
			current := ""
			if cfg != nil {
				current = cfg.CurrentWorkspace
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"current":    current,
					"workspaces": names,
				},
			})
		},
	}
	return cmd
}
