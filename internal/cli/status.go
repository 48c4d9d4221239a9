package cli

import (
	"plantdeck/internal/store"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show local plantdeck DB status",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			evs, err := store.ReadEvents(s.Dir, 0)
			if err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":               s.Dir,
					"currentActorId":    db.CurrentActorID,
					"currentFacilityId": db.CurrentFacilityID,
					"actors":            len(db.Actors),
					"facilities":        len(db.Facilities),
					"lines":             len(db.Lines),
					"equipment":         len(db.Equipment),
					"workOrders":        len(db.WorkOrders),
					"inspections":       len(db.Inspections),
					"events":            len(evs),
				},
			})
		},
	}
	return cmd
}
