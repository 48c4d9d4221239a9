package cli

import (
	"errors"
	"strings"

	"plantdeck/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var includeArchived bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export derived Markdown dossiers (not canonical)",
	}

	equipmentCmd := &cobra.Command{
		Use:   "equipment <equipment-id>",
		Short: "Publish a single unit as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			res, err := publish.WriteEquipment(db, args[0], toDir, publish.WriteOptions{
				IncludeArchived: includeArchived,
				Overwrite:       overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	lineCmd := &cobra.Command{
		Use:   "line <line-id>",
		Short: "Publish a line index + unit pages as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			res, err := publish.WriteLine(db, args[0], toDir, publish.WriteOptions{
				IncludeArchived: includeArchived,
				Overwrite:       overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.PersistentFlags().StringVar(&toDir, "to", "", "Output directory")
	_ = cmd.MarkPersistentFlagRequired("to")
	cmd.PersistentFlags().BoolVar(&includeArchived, "include-archived", false, "Include archived equipment")
	cmd.PersistentFlags().BoolVar(&overwrite, "overwrite", true, "Overwrite existing files")

	cmd.AddCommand(equipmentCmd)
	cmd.AddCommand(lineCmd)
	return cmd
}
