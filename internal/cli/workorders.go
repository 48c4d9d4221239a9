package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"plantdeck/internal/model"
	"plantdeck/internal/mutate"

	"github.com/spf13/cobra"
)

func newWorkOrdersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workorders",
		Short:   "Maintenance work order commands",
		Aliases: []string{"wo"},
	}
	cmd.AddCommand(newWorkOrdersCreateCmd(app))
	cmd.AddCommand(newWorkOrdersListCmd(app))
	cmd.AddCommand(newWorkOrdersShowCmd(app))
	cmd.AddCommand(newWorkOrdersStartCmd(app))
	cmd.AddCommand(newWorkOrdersCompleteCmd(app))
	cmd.AddCommand(newWorkOrdersReopenCmd(app))
	cmd.AddCommand(newWorkOrdersAssignCmd(app))
	return cmd
}

func newWorkOrdersCreateCmd(app *App) *cobra.Command {
	var equipmentID string
	var title string
	var description string
	var priority bool
	var due string
	var assignee string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a work order against equipment",
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
			if strings.TrimSpace(title) == "" {
				return writeErr(cmd, errors.New("missing --title"))
			}
			if due != "" {
				if _, err := time.Parse("2006-01-02", due); err != nil {
					return writeErr(cmd, fmt.Errorf("invalid --due (expected YYYY-MM-DD): %q", due))
				}
			}

			var assigneePtr *string
			if a := strings.TrimSpace(assignee); a != "" {
				if _, ok := db.FindActor(a); !ok {
					return writeErr(cmd, errNotFound("actor", a))
				}
				assigneePtr = &a
			}

			now := time.Now().UTC()
			wo := model.WorkOrder{
				ID:          s.NextID(db, "wo"),
				EquipmentID: eid,
				Title:       strings.TrimSpace(title),
				Description: description,
				StatusID:    model.WorkOrderStatusOpen,
				Priority:    priority,
				AssigneeID:  assigneePtr,
				DueDate:     due,
				CreatedBy:   actorID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			db.WorkOrders = append(db.WorkOrders, wo)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(actorID, "workorder.create", wo.ID, wo)
			return writeOut(cmd, app, map[string]any{"data": wo})
		},
	}

	cmd.Flags().StringVar(&equipmentID, "equipment", "", "Equipment id")
	cmd.Flags().StringVar(&title, "title", "", "Work order title")
	cmd.Flags().StringVar(&description, "description", "", "Details (markdown)")
	cmd.Flags().BoolVar(&priority, "priority", false, "Mark as priority")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee actor id")
	_ = cmd.MarkFlagRequired("equipment")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newWorkOrdersListCmd(app *App) *cobra.Command {
	var equipmentID string
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders (newest first when filtered by equipment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var rows []model.WorkOrder
			if eid := strings.TrimSpace(equipmentID); eid != "" {
				rows = db.WorkOrdersForEquipment(eid)
			} else {
				rows = append(rows, db.WorkOrders...)
			}

			out := []model.WorkOrder{}
			for _, w := range rows {
				if st := strings.TrimSpace(status); st != "" && w.StatusID != st {
					continue
				}
				out = append(out, w)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&equipmentID, "equipment", "", "Filter by equipment id")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (open|in_progress|done)")
	return cmd
}

func newWorkOrdersShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <work-order-id>",
		Short: "Show a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			wo, ok := db.FindWorkOrder(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("work order", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": wo})
		},
	}
	return cmd
}

func newWorkOrdersStartCmd(app *App) *cobra.Command {
	return newWorkOrderTransitionCmd(app, "start", "Start a work order (open -> in_progress)", model.WorkOrderStatusInProgress)
}

func newWorkOrdersCompleteCmd(app *App) *cobra.Command {
	return newWorkOrderTransitionCmd(app, "complete", "Complete a work order (in_progress -> done)", model.WorkOrderStatusDone)
}

func newWorkOrdersReopenCmd(app *App) *cobra.Command {
	return newWorkOrderTransitionCmd(app, "reopen", "Pause a work order (in_progress -> open)", model.WorkOrderStatusOpen)
}

func newWorkOrderTransitionCmd(app *App, verb, short, target string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   verb + " <work-order-id>",
		Short: short,
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
			res, err := mutate.TransitionWorkOrder(db, actorID, args[0], target)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "workorder.transition", res.WorkOrder.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.WorkOrder})
		},
	}
	return cmd
}

func newWorkOrdersAssignCmd(app *App) *cobra.Command {
	var to string
	var clear bool

	cmd := &cobra.Command{
		Use:   "assign <work-order-id>",
		Short: "Assign a work order to an actor (or --clear)",
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
			res, err := mutate.SetWorkOrderAssignee(db, actorID, args[0], target)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent(actorID, "workorder.set_assign", res.WorkOrder.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.WorkOrder})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Assignee actor id")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the assignment")
	return cmd
}
