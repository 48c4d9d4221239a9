package cli

import (
	"errors"
	"strings"
	"time"

	"plantdeck/internal/model"
	"plantdeck/internal/mutate"
	"plantdeck/internal/perm"
	"plantdeck/internal/store"

	"github.com/spf13/cobra"
)

func newEquipmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "equipment",
		Short:   "Equipment commands",
		Aliases: []string{"eq"},
	}
	cmd.AddCommand(newEquipmentCreateCmd(app))
	cmd.AddCommand(newEquipmentListCmd(app))
	cmd.AddCommand(newEquipmentShowCmd(app))
	cmd.AddCommand(newEquipmentSetStatusCmd(app))
	cmd.AddCommand(newEquipmentSetNoteCmd(app))
	cmd.AddCommand(newEquipmentAssignCmd(app))
	cmd.AddCommand(newEquipmentArchiveCmd(app))
	cmd.AddCommand(newEquipmentMoveCmd(app))
	return cmd
}

func newEquipmentCreateCmd(app *App) *cobra.Command {
	var lineID string
	var name string
	var kind string
	var serial string
	var location string
	var status string
	var critical bool
	var tags []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register equipment on a line (appended at the end of the line order)",
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

			lid := strings.TrimSpace(lineID)
			line, ok := db.FindLine(lid)
			if !ok {
				return writeErr(cmd, errNotFound("line", lid))
			}

			statusID := model.EquipmentStatusOperational
			if strings.TrimSpace(status) != "" {
				statusID, err = store.ParseEquipmentStatus(status)
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			// Append to the end of the line: rank after the current last row.
			rows := db.LineEquipment(lid)
			lower := ""
			if len(rows) > 0 {
				lower = rows[len(rows)-1].Rank
			}
			rank, err := store.RankAfter(lower)
			if err != nil {
				return writeErr(cmd, err)
			}

			now := time.Now().UTC()
			eq := model.Equipment{
				ID:           s.NextID(db, "eq"),
				FacilityID:   line.FacilityID,
				LineID:       lid,
				Rank:         rank,
				Name:         strings.TrimSpace(name),
				Kind:         strings.TrimSpace(kind),
				Serial:       strings.TrimSpace(serial),
				Location:     strings.TrimSpace(location),
				StatusID:     statusID,
				Critical:     critical,
				Tags:         tags,
				OwnerActorID: actorID,
				CreatedBy:    actorID,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			db.Equipment = append(db.Equipment, eq)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "equipment.create", eq.ID, eq)
			return writeOut(cmd, app, map[string]any{"data": eq})
		},
	}

	cmd.Flags().StringVar(&lineID, "line", "", "Line id")
	cmd.Flags().StringVar(&name, "name", "", "Equipment name")
	cmd.Flags().StringVar(&kind, "kind", "", "Equipment kind (e.g. filler, conveyor)")
	cmd.Flags().StringVar(&serial, "serial", "", "Serial number")
	cmd.Flags().StringVar(&location, "location", "", "Physical location (e.g. bay 2)")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (operational|maintenance|down|retired)")
	cmd.Flags().BoolVar(&critical, "critical", false, "Mark as critical (downtime halts the line)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newEquipmentListCmd(app *App) *cobra.Command {
	var lineID string
	var status string
	var includeArchived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List equipment (line order when --line is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var rows []model.Equipment
			if lid := strings.TrimSpace(lineID); lid != "" {
				rows = db.LineEquipment(lid)
			} else {
				ptrs := make([]*model.Equipment, 0, len(db.Equipment))
				for i := range db.Equipment {
					ptrs = append(ptrs, &db.Equipment[i])
				}
				store.SortEquipmentByRank(ptrs)
				rows = make([]model.Equipment, 0, len(ptrs))
				for _, p := range ptrs {
					rows = append(rows, *p)
				}
			}

			out := []model.Equipment{}
			for _, e := range rows {
				if !includeArchived && e.Archived {
					continue
				}
				if st := strings.TrimSpace(status); st != "" && e.StatusID != st {
					continue
				}
				out = append(out, e)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&lineID, "line", "", "Filter by line id (results in line order)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "Include archived equipment")
	return cmd
}

func newEquipmentShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <equipment-id>",
		Short: "Show equipment with its work orders and recent inspections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			eq, ok := db.FindEquipment(id)
			if !ok {
				return writeErr(cmd, errNotFound("equipment", id))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"equipment":   eq,
					"workOrders":  db.WorkOrdersForEquipment(id),
					"inspections": db.InspectionsForEquipment(id),
				},
			})
		},
	}
	return cmd
}

func newEquipmentSetStatusCmd(app *App) *cobra.Command {
	var status string
	var note string

	cmd := &cobra.Command{
		Use:   "set-status <equipment-id>",
		Short: "Set equipment status (down requires --note)",
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

			var notePtr *string
			if cmd.Flags().Changed("note") {
				notePtr = &note
			}
			res, err := mutate.SetEquipmentStatus(db, actorID, args[0], status, notePtr)
			if err != nil {
				var oo mutate.OwnerOnlyError
				if errors.As(err, &oo) {
					return writeErr(cmd, errOwnerOnly(oo.ActorID, oo.OwnerActorID, oo.EquipmentID))
				}
				return writeErr(cmd, err)
			}
			if res.Changed {
				res.Equipment.UpdatedAt = time.Now().UTC()
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "equipment.set_status", res.Equipment.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Equipment})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "New status (operational|maintenance|down|retired)")
	cmd.Flags().StringVar(&note, "note", "", "Reason note (required when going down)")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newEquipmentSetNoteCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "set-note <equipment-id>",
		Short: "Replace equipment notes (markdown)",
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
			eq.Notes = note
			eq.UpdatedAt = time.Now().UTC()
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "equipment.set_note", eq.ID, map[string]any{"notes": note})
			return writeOut(cmd, app, map[string]any{"data": eq})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Markdown notes")
	_ = cmd.MarkFlagRequired("note")
	return cmd
}

func newEquipmentAssignCmd(app *App) *cobra.Command {
	var to string
	var clear bool
	var takeAssigned bool

	cmd := &cobra.Command{
		Use:   "assign <equipment-id>",
		Short: "Assign equipment to an actor (or --clear)",
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

			var target *string
			if !clear {
				if strings.TrimSpace(to) == "" {
					return writeErr(cmd, errors.New("pass --to <actor-id> or --clear"))
				}
				target = &to
			}
			res, err := mutate.SetAssignedActor(db, actorID, args[0], target, mutate.AssignOpts{TakeAssigned: takeAssigned})
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				res.Equipment.UpdatedAt = time.Now().UTC()
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "equipment.set_assign", res.Equipment.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Equipment})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Assignee actor id")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the assignment")
	cmd.Flags().BoolVar(&takeAssigned, "take-assigned", false, "Take an already-assigned record for yourself")
	return cmd
}

func newEquipmentArchiveCmd(app *App) *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:   "archive <equipment-id>",
		Short: "Archive equipment (or --restore)",
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
			res, err := mutate.SetEquipmentArchived(db, actorID, args[0], !restore)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				res.Equipment.UpdatedAt = time.Now().UTC()
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "equipment.archive", res.Equipment.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Equipment})
		},
	}
	cmd.Flags().BoolVar(&restore, "restore", false, "Restore instead of archive")
	return cmd
}
