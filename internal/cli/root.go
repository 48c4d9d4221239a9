package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"plantdeck/internal/format"
	"plantdeck/internal/store"
	"plantdeck/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	ActorID    string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "plantdeck",
		Short:        "plantdeck (local-first) plant floor CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  plantdeck

  # Scriptable commands
  plantdeck equipment list

  # Direct equipment lookup (shortcut for: plantdeck equipment show <id>)
  plantdeck eq-vth4k2a1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("PLANTDECK_DIR", ""), "Path to store dir (advanced: overrides workspace resolution; use for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("PLANTDECK_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().StringVar(&app.ActorID, "actor", envOr("PLANTDECK_ACTOR", ""), "Actor id (overrides currentActorId)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newIdentityCmd(app))
	cmd.AddCommand(newFacilitiesCmd(app))
	cmd.AddCommand(newLinesCmd(app))
	cmd.AddCommand(newEquipmentCmd(app))
	cmd.AddCommand(newWorkOrdersCmd(app))
	cmd.AddCommand(newInspectionsCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, st, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.RunWithWorkspace(st.Dir, db, app.Workspace)
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		// Workspace-first:
		// 1) --workspace
		// 2) ~/.plantdeck/config.json currentWorkspace
		// 3) default workspace ("default")
		if app.Workspace != "" {
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return nil, store.Store{}, err
			}
			dir = d
		} else if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
			d, err := store.WorkspaceDir(cfg.CurrentWorkspace)
			if err != nil {
				return nil, store.Store{}, err
			}
			app.Workspace = cfg.CurrentWorkspace
			dir = d
		} else {
			app.Workspace = "default"
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return nil, store.Store{}, err
			}
			dir = d
		}
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

func currentActorID(app *App, db *store.DB) (string, error) {
	if app.ActorID != "" {
		return app.ActorID, nil
	}
	if db.CurrentActorID != "" {
		return db.CurrentActorID, nil
	}
	return "", errors.New("no current actor; run `plantdeck identity create ... --use` or `plantdeck identity use <actor-id>` (or pass --actor)")
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
