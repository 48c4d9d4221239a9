package store

import (
	"testing"
	"time"

	"plantdeck/internal/model"
)

func TestSQLiteState_SaveLoad_RoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	now := time.Now().UTC()
	assignee := "act-b"
	db := &DB{
		Version:           1,
		CurrentActorID:    "act-a",
		CurrentFacilityID: "fac-a",
		Actors: []model.Actor{
			{ID: "act-a", Kind: model.ActorKindHuman, Name: "Ada"},
			{ID: "act-b", Kind: model.ActorKindAgent, Name: "inspector-bot"},
		},
		Facilities: []model.Facility{
			{ID: "fac-a", Name: "North Plant", Site: "Oslo", CreatedBy: "act-a", CreatedAt: now},
		},
		Lines: []model.Line{
			{ID: "line-a", FacilityID: "fac-a", Name: "Packaging", CreatedBy: "act-a", CreatedAt: now},
		},
		Equipment: []model.Equipment{
			{
				ID: "eq-a", FacilityID: "fac-a", LineID: "line-a", Rank: "h",
				Name: "Filler 3", Kind: "filler", Serial: "SN-100", Location: "bay 2",
				StatusID: model.EquipmentStatusOperational, Critical: true,
				Notes: "## Checklist\n\n- belts", Tags: []string{"fda", "line-a"},
				OwnerActorID: "act-a", AssignedActorID: &assignee,
				CreatedBy: "act-a", CreatedAt: now, UpdatedAt: now,
			},
		},
		WorkOrders: []model.WorkOrder{
			{
				ID: "wo-a", EquipmentID: "eq-a", Title: "Replace belt",
				StatusID: model.WorkOrderStatusOpen, Priority: true, DueDate: "2026-09-15",
				CreatedBy: "act-a", CreatedAt: now, UpdatedAt: now,
			},
		},
		Inspections: []model.Inspection{
			{ID: "insp-a", EquipmentID: "eq-a", Checkpoint: "torque", Result: model.InspectionResultPass, Measured: "42 Nm", InspectorID: "act-b", CreatedAt: now},
		},
	}

	if err := s.Save(db); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CurrentActorID != "act-a" || got.CurrentFacilityID != "fac-a" {
		t.Fatalf("unexpected meta: actor=%q facility=%q", got.CurrentActorID, got.CurrentFacilityID)
	}
	if len(got.Equipment) != 1 {
		t.Fatalf("unexpected equipment: %+v", got.Equipment)
	}
	eq := got.Equipment[0]
	if eq.ID != "eq-a" || eq.Rank != "h" || !eq.Critical || eq.Notes != "## Checklist\n\n- belts" {
		t.Fatalf("equipment did not round-trip: %+v", eq)
	}
	if eq.AssignedActorID == nil || *eq.AssignedActorID != "act-b" {
		t.Fatalf("assigned actor did not round-trip: %v", eq.AssignedActorID)
	}
	if len(eq.Tags) != 2 || eq.Tags[0] != "fda" {
		t.Fatalf("tags did not round-trip: %v", eq.Tags)
	}
	if len(got.WorkOrders) != 1 || got.WorkOrders[0].DueDate != "2026-09-15" || !got.WorkOrders[0].Priority {
		t.Fatalf("work orders did not round-trip: %+v", got.WorkOrders)
	}
	if len(got.Inspections) != 1 || got.Inspections[0].Result != model.InspectionResultPass {
		t.Fatalf("inspections did not round-trip: %+v", got.Inspections)
	}
	if len(got.Actors) != 2 || len(got.Facilities) != 1 || len(got.Lines) != 1 {
		t.Fatalf("collection counts: actors=%d facilities=%d lines=%d", len(got.Actors), len(got.Facilities), len(got.Lines))
	}
}

func TestSQLiteState_SaveReplacesPreviousRows(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	now := time.Now().UTC()

	first := &DB{Version: 1, Equipment: []model.Equipment{
		{ID: "eq-a", LineID: "line-a", Rank: "h", Name: "Old", CreatedAt: now, UpdatedAt: now},
		{ID: "eq-b", LineID: "line-a", Rank: "p", Name: "Gone", CreatedAt: now, UpdatedAt: now},
	}}
	if err := s.Save(first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	second := &DB{Version: 1, Equipment: []model.Equipment{
		{ID: "eq-a", LineID: "line-a", Rank: "h", Name: "New", CreatedAt: now, UpdatedAt: now},
	}}
	if err := s.Save(second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Equipment) != 1 || got.Equipment[0].Name != "New" {
		t.Fatalf("expected replace-all semantics, got %+v", got.Equipment)
	}
}

func TestSQLiteState_LoadEmptyWorkspace(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if got.Version != 1 {
		t.Fatalf("version = %d, want 1", got.Version)
	}
	if got.Actors == nil || got.Facilities == nil || got.Lines == nil || got.Equipment == nil || got.WorkOrders == nil || got.Inspections == nil {
		t.Fatalf("expected empty (non-nil) collections: %+v", got)
	}
	if len(got.Equipment) != 0 {
		t.Fatalf("expected no equipment, got %d", len(got.Equipment))
	}
}
