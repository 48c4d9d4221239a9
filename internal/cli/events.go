package cli

import (
	"strings"

	"plantdeck/internal/model"
	"plantdeck/internal/store"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int
	var entityID string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the local event log",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events (oldest-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var evs []model.Event
			if eid := strings.TrimSpace(entityID); eid != "" {
				evs, err = store.ReadEventsForEntity(s.Dir, eid, limit)
			} else {
				evs, err = store.ReadEvents(s.Dir, limit)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	listCmd.Flags().StringVar(&entityID, "entity", "", "Filter by entity id")

	cmd.AddCommand(listCmd)
	return cmd
}
