package cli

import (
	"strings"
	"time"

	"plantdeck/internal/model"

	"github.com/spf13/cobra"
)

func newLinesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Production line commands",
	}
	cmd.AddCommand(newLinesCreateCmd(app))
	cmd.AddCommand(newLinesListCmd(app))
	return cmd
}

func newLinesCreateCmd(app *App) *cobra.Command {
	var name string
	var facilityID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a production line in a facility",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}

			fid := strings.TrimSpace(facilityID)
			if fid == "" {
				fid = db.CurrentFacilityID
			}
			if fid == "" {
				return writeErr(cmd, errNotFound("facility", "(none; pass --facility or `plantdeck facilities use`)"))
			}
			if _, ok := db.FindFacility(fid); !ok {
				return writeErr(cmd, errNotFound("facility", fid))
			}

			l := model.Line{
				ID:         s.NextID(db, "line"),
				FacilityID: fid,
				Name:       strings.TrimSpace(name),
				CreatedBy:  actorID,
				CreatedAt:  time.Now().UTC(),
			}
			db.Lines = append(db.Lines, l)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "line.create", l.ID, l)
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Line name")
	cmd.Flags().StringVar(&facilityID, "facility", "", "Facility id (default: current facility)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLinesListCmd(app *App) *cobra.Command {
	var facilityID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List production lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			fid := strings.TrimSpace(facilityID)
			out := []model.Line{}
			for _, l := range db.Lines {
				if fid != "" && l.FacilityID != fid {
					continue
				}
				out = append(out, l)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&facilityID, "facility", "", "Filter by facility id")
	return cmd
}
