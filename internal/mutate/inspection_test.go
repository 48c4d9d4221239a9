package mutate

import (
	"errors"
	"testing"

	"plantdeck/internal/model"
	"plantdeck/internal/store"
)

func inspectionDB() *store.DB {
	db := testDB()
	db.Inspections = []model.Inspection{
		{ID: "insp-1", EquipmentID: "eq-a", Checkpoint: "torque", Result: model.InspectionResultPending, InspectorID: "act-ada"},
	}
	return db
}

func TestSetInspectionResult_ResolvesPending(t *testing.T) {
	db := inspectionDB()
	res, err := SetInspectionResult(db, "act-ada", "insp-1", "fail")
	if err != nil {
		t.Fatalf("set result: %v", err)
	}
	if !res.Changed || res.Inspection.Result != model.InspectionResultFail {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.EventPayload["from"] != "pending" || res.EventPayload["to"] != "fail" {
		t.Fatalf("unexpected payload: %+v", res.EventPayload)
	}
}

func TestSetInspectionResult_SameResultIsNoop(t *testing.T) {
	db := inspectionDB()
	res, err := SetInspectionResult(db, "act-ada", "insp-1", "pending")
	if err != nil {
		t.Fatalf("set result: %v", err)
	}
	if res.Changed {
		t.Fatal("expected no-op for unchanged result")
	}
}

func TestSetInspectionResult_RejectsUnknownResult(t *testing.T) {
	db := inspectionDB()
	if _, err := SetInspectionResult(db, "act-ada", "insp-1", "maybe"); err == nil {
		t.Fatal("expected error for unknown result")
	}
}

func TestSetInspectionResult_UnknownInspection(t *testing.T) {
	db := inspectionDB()
	_, err := SetInspectionResult(db, "act-ada", "insp-nope", "pass")
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "inspection" {
		t.Fatalf("expected inspection NotFoundError, got %v", err)
	}
}
