package mutate

import (
	"errors"
	"testing"

	"plantdeck/internal/model"
)

func TestTransitionWorkOrder_LegalSteps(t *testing.T) {
	db := testDB()
	db.WorkOrders = []model.WorkOrder{
		{ID: "wo-a", EquipmentID: "eq-a", Title: "Replace belt", StatusID: model.WorkOrderStatusOpen},
	}

	res, err := TransitionWorkOrder(db, "act-ada", "wo-a", "in_progress")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !res.Changed || res.WorkOrder.StatusID != model.WorkOrderStatusInProgress {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.EventPayload["from"] != "open" || res.EventPayload["to"] != "in_progress" {
		t.Fatalf("unexpected payload: %+v", res.EventPayload)
	}

	done, err := TransitionWorkOrder(db, "act-ada", "wo-a", "done")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.WorkOrder.StatusID != model.WorkOrderStatusDone {
		t.Fatalf("unexpected status: %+v", done.WorkOrder)
	}
}

func TestTransitionWorkOrder_IllegalSteps(t *testing.T) {
	db := testDB()
	db.WorkOrders = []model.WorkOrder{
		{ID: "wo-a", EquipmentID: "eq-a", StatusID: model.WorkOrderStatusOpen},
		{ID: "wo-b", EquipmentID: "eq-a", StatusID: model.WorkOrderStatusDone},
	}

	var te TransitionError
	if _, err := TransitionWorkOrder(db, "act-ada", "wo-a", "done"); !errors.As(err, &te) {
		t.Fatalf("open -> done should be illegal, got %v", err)
	}
	if _, err := TransitionWorkOrder(db, "act-ada", "wo-b", "in_progress"); !errors.As(err, &te) {
		t.Fatalf("done is terminal, got %v", err)
	}

	// Same status is a no-op, not an error.
	res, err := TransitionWorkOrder(db, "act-ada", "wo-a", "open")
	if err != nil || res.Changed {
		t.Fatalf("expected no-op, got %+v, %v", res, err)
	}
}

func TestTransitionWorkOrder_PauseStepsBack(t *testing.T) {
	db := testDB()
	db.WorkOrders = []model.WorkOrder{
		{ID: "wo-a", EquipmentID: "eq-a", StatusID: model.WorkOrderStatusInProgress},
	}
	res, err := TransitionWorkOrder(db, "act-ada", "wo-a", "open")
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if res.WorkOrder.StatusID != model.WorkOrderStatusOpen {
		t.Fatalf("unexpected status: %+v", res.WorkOrder)
	}
}

func TestSetWorkOrderAssignee(t *testing.T) {
	db := testDB()
	db.WorkOrders = []model.WorkOrder{
		{ID: "wo-a", EquipmentID: "eq-a", StatusID: model.WorkOrderStatusOpen},
	}

	res, err := SetWorkOrderAssignee(db, "act-ada", "wo-a", strPtr("act-bo"))
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if !res.Changed || res.WorkOrder.AssigneeID == nil || *res.WorkOrder.AssigneeID != "act-bo" {
		t.Fatalf("unexpected result: %+v", res)
	}

	var nf NotFoundError
	if _, err := SetWorkOrderAssignee(db, "act-ada", "wo-a", strPtr("act-ghost")); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	cleared, err := SetWorkOrderAssignee(db, "act-ada", "wo-a", nil)
	if err != nil || !cleared.Changed || cleared.WorkOrder.AssigneeID != nil {
		t.Fatalf("clear: %+v, %v", cleared, err)
	}
}
