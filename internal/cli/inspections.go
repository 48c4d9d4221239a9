package cli

import (
	"fmt"
	"strings"
	"time"

	"plantdeck/internal/model"

	"github.com/spf13/cobra"
)

func newInspectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspections",
		Short: "Quality inspection commands",
	}
	cmd.AddCommand(newInspectionsRecordCmd(app))
	cmd.AddCommand(newInspectionsListCmd(app))
	return cmd
}

func parseInspectionResult(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case model.InspectionResultPending:
		return model.InspectionResultPending, nil
	case model.InspectionResultPass:
		return model.InspectionResultPass, nil
	case model.InspectionResultFail:
		return model.InspectionResultFail, nil
	default:
		return "", fmt.Errorf("invalid inspection result: %q (expected pending|pass|fail)", s)
	}
}

func newInspectionsRecordCmd(app *App) *cobra.Command {
	var equipmentID string
	var checkpoint string
	var result string
	var measured string
	var note string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a quality inspection for equipment",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}

			eid := strings.TrimSpace(equipmentID)
			if _, ok := db.FindEquipment(eid); !ok {
				return writeErr(cmd, errNotFound("equipment", eid))
			}
			res, err := parseInspectionResult(result)
			if err != nil {
				return writeErr(cmd, err)
			}

			insp := model.Inspection{
				ID:          s.NextID(db, "insp"),
				EquipmentID: eid,
				Checkpoint:  strings.TrimSpace(checkpoint),
				Result:      res,
				Measured:    strings.TrimSpace(measured),
				Note:        note,
				InspectorID: actorID,
				CreatedAt:   time.Now().UTC(),
			}
			db.Inspections = append(db.Inspections, insp)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "inspection.record", insp.ID, insp)
			return writeOut(cmd, app, map[string]any{"data": insp})
		},
	}

	cmd.Flags().StringVar(&equipmentID, "equipment", "", "Equipment id")
	cmd.Flags().StringVar(&checkpoint, "checkpoint", "", "Checkpoint name (e.g. torque, fill-weight)")
	cmd.Flags().StringVar(&result, "result", "pending", "Result (pending|pass|fail)")
	cmd.Flags().StringVar(&measured, "measured", "", "Measured value (free-form, e.g. '42 Nm')")
	cmd.Flags().StringVar(&note, "note", "", "Inspector note")
	_ = cmd.MarkFlagRequired("equipment")
	_ = cmd.MarkFlagRequired("checkpoint")
	return cmd
}

func newInspectionsListCmd(app *App) *cobra.Command {
	var equipmentID string
	var result string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inspections (newest first when filtered by equipment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var rows []model.Inspection
			if eid := strings.TrimSpace(equipmentID); eid != "" {
				rows = db.InspectionsForEquipment(eid)
			} else {
				rows = append(rows, db.Inspections...)
			}

			out := []model.Inspection{}
			for _, in := range rows {
				if r := strings.TrimSpace(result); r != "" && in.Result != r {
					continue
				}
				out = append(out, in)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&equipmentID, "equipment", "", "Filter by equipment id")
	cmd.Flags().StringVar(&result, "result", "", "Filter by result (pending|pass|fail)")
	return cmd
}
