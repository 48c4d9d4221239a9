package cli

import (
	"strings"
	"time"

	"plantdeck/internal/model"

	"github.com/spf13/cobra"
)

func newFacilitiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facilities",
		Short: "Facility commands",
	}
	cmd.AddCommand(newFacilitiesCreateCmd(app))
	cmd.AddCommand(newFacilitiesListCmd(app))
	cmd.AddCommand(newFacilitiesUseCmd(app))
	return cmd
}

func newFacilitiesCreateCmd(app *App) *cobra.Command {
	var name string
	var site string
	var use bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a facility",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindActor(actorID); !ok {
				return writeErr(cmd, errNotFound("actor", actorID))
			}

			f := model.Facility{
				ID:        s.NextID(db, "fac"),
				Name:      strings.TrimSpace(name),
				Site:      strings.TrimSpace(site),
				CreatedBy: actorID,
				CreatedAt: time.Now().UTC(),
			}
			db.Facilities = append(db.Facilities, f)
			if use {
				db.CurrentFacilityID = f.ID
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "facility.create", f.ID, f)
			return writeOut(cmd, app, map[string]any{"data": f})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Facility name")
	cmd.Flags().StringVar(&site, "site", "", "Site or city")
	cmd.Flags().BoolVar(&use, "use", false, "Set as current facility")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFacilitiesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List facilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.Facilities})
		},
	}
	return cmd
}

func newFacilitiesUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <facility-id>",
		Short: "Set the current facility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if _, ok := db.FindFacility(id); !ok {
				return writeErr(cmd, errNotFound("facility", id))
			}
			db.CurrentFacilityID = id
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"currentFacilityId": id}})
		},
	}
	return cmd
}
