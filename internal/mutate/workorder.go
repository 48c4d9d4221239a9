package mutate

import (
	"fmt"
	"strings"
	"time"

	"plantdeck/internal/model"
	"plantdeck/internal/store"
)

type TransitionError struct {
	From string
	To   string
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("illegal work order transition: %s -> %s", e.From, e.To)
}

type WorkOrderResult struct {
	WorkOrder    *model.WorkOrder
	Changed      bool
	EventPayload map[string]any
}

// legalWorkOrderSteps maps each status to the statuses reachable from it.
// Work proceeds open -> in_progress -> done; in_progress may step back to
// open when work is paused or handed off.
var legalWorkOrderSteps = map[string][]string{
	model.WorkOrderStatusOpen:       {model.WorkOrderStatusInProgress},
	model.WorkOrderStatusInProgress: {model.WorkOrderStatusDone, model.WorkOrderStatusOpen},
	model.WorkOrderStatusDone:       {},
}

// TransitionWorkOrder advances a work order's status, enforcing legal steps.
// Callers are responsible for saving db and appending the workorder.transition event.
func TransitionWorkOrder(db *store.DB, actorID, workOrderID, nextStatus string) (WorkOrderResult, error) {
	workOrderID = strings.TrimSpace(workOrderID)
	actorID = strings.TrimSpace(actorID)
	nextStatus = strings.ToLower(strings.TrimSpace(nextStatus))
	if db == nil || workOrderID == "" || actorID == "" {
		return WorkOrderResult{}, nil
	}
	if _, ok := db.FindActor(actorID); !ok {
		return WorkOrderResult{}, NotFoundError{Kind: "actor", ID: actorID}
	}

	wo, ok := db.FindWorkOrder(workOrderID)
	if !ok {
		return WorkOrderResult{}, NotFoundError{Kind: "work order", ID: workOrderID}
	}

	from := strings.TrimSpace(wo.StatusID)
	if from == nextStatus {
		return WorkOrderResult{WorkOrder: wo, Changed: false}, nil
	}
	allowed := false
	for _, s := range legalWorkOrderSteps[from] {
		if s == nextStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return WorkOrderResult{}, TransitionError{From: from, To: nextStatus}
	}

	wo.StatusID = nextStatus
	wo.UpdatedAt = time.Now().UTC()
	return WorkOrderResult{
		WorkOrder: wo,
		Changed:   true,
		EventPayload: map[string]any{
			"from": from,
			"to":   nextStatus,
		},
	}, nil
}

// SetWorkOrderAssignee sets (or clears) the actor responsible for a work order.
// Callers are responsible for saving db and appending the workorder.set_assign event.
func SetWorkOrderAssignee(db *store.DB, actorID, workOrderID string, assigneeID *string) (WorkOrderResult, error) {
	workOrderID = strings.TrimSpace(workOrderID)
	actorID = strings.TrimSpace(actorID)
	if db == nil || workOrderID == "" || actorID == "" {
		return WorkOrderResult{}, nil
	}
	if _, ok := db.FindActor(actorID); !ok {
		return WorkOrderResult{}, NotFoundError{Kind: "actor", ID: actorID}
	}

	wo, ok := db.FindWorkOrder(workOrderID)
	if !ok {
		return WorkOrderResult{}, NotFoundError{Kind: "work order", ID: workOrderID}
	}

	next := ""
	if assigneeID != nil {
		next = strings.TrimSpace(*assigneeID)
	}
	if next == "" {
		if wo.AssigneeID == nil || strings.TrimSpace(*wo.AssigneeID) == "" {
			return WorkOrderResult{WorkOrder: wo, Changed: false}, nil
		}
		wo.AssigneeID = nil
		wo.UpdatedAt = time.Now().UTC()
		return WorkOrderResult{
			WorkOrder:    wo,
			Changed:      true,
			EventPayload: map[string]any{"assigneeId": nil},
		}, nil
	}

	if _, ok := db.FindActor(next); !ok {
		return WorkOrderResult{}, NotFoundError{Kind: "actor", ID: next}
	}
	if wo.AssigneeID != nil && strings.TrimSpace(*wo.AssigneeID) == next {
		return WorkOrderResult{WorkOrder: wo, Changed: false}, nil
	}
	tmp := next
	wo.AssigneeID = &tmp
	wo.UpdatedAt = time.Now().UTC()
	return WorkOrderResult{
		WorkOrder:    wo,
		Changed:      true,
		EventPayload: map[string]any{"assigneeId": wo.AssigneeID},
	}, nil
}
