package cli

import (
	"errors"
	"time"

	"plantdeck/internal/model"
	"plantdeck/internal/perm"
	"plantdeck/internal/store"

	"github.com/spf13/cobra"
)

func newEquipmentMoveCmd(app *App) *cobra.Command {
	var before string
	var after string

	cmd := &cobra.Command{
		Use:   "move <equipment-id>",
		Short: "Reorder equipment within its line (owner-only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			eq, ok := db.FindEquipment(id)
			if !ok {
				return writeErr(cmd, errNotFound("equipment", id))
			}
			if !perm.CanEditEquipment(db, actorID, eq) {
				return writeErr(cmd, errOwnerOnly(actorID, eq.OwnerActorID, id))
			}
			if (before == "" && after == "") || (before != "" && after != "") {
				return writeErr(cmd, errors.New("provide exactly one of --before or --after"))
			}

			refID := before
			if after != "" {
				refID = after
			}
			ref, ok := db.FindEquipment(refID)
			if !ok {
				return writeErr(cmd, errNotFound("equipment", refID))
			}
			if ref.LineID != eq.LineID {
				return writeErr(cmd, errors.New("equipment must be on the same line to reorder"))
			}

			// Insertion index in the line order with the moved row removed.
			sibs := db.LineEquipment(eq.LineID)
			rest := make([]model.Equipment, 0, len(sibs))
			for _, x := range sibs {
				if x.ID != id {
					rest = append(rest, x)
				}
			}
			refIdx := -1
			for i, x := range rest {
				if x.ID == refID {
					refIdx = i
					break
				}
			}
			if refIdx < 0 {
				return writeErr(cmd, errors.New("reference equipment not found among line siblings"))
			}
			insertAt := refIdx
			if after != "" {
				insertAt = refIdx + 1
			}

			rows := make([]*model.Equipment, 0, len(sibs))
			for i := range sibs {
				rows = append(rows, &sibs[i])
			}
			plan, err := store.PlanRankMoves(rows, id, insertAt)
			if err != nil {
				return writeErr(cmd, err)
			}
			now := time.Now().UTC()
			for rid, rank := range plan.RankByID {
				if row, ok := db.FindEquipment(rid); ok {
					row.Rank = rank
					row.UpdatedAt = now
				}
			}

			if len(plan.RankByID) > 0 {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "equipment.move", id, map[string]any{
					"before":       before,
					"after":        after,
					"rankById":     plan.RankByID,
					"usedFallback": plan.UsedFallback,
				})
			}

			eq, _ = db.FindEquipment(id)
			return writeOut(cmd, app, map[string]any{"data": eq})
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Move before equipment id")
	cmd.Flags().StringVar(&after, "after", "", "Move after equipment id")
	return cmd
}
