package store

import (
	"testing"
	"time"

	"plantdeck/internal/model"
)

func TestAppendEvent_RejectsMissingFields(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if err := s.AppendEvent("", "equipment.create", "eq-a", nil); err == nil {
		t.Fatalf("expected error for missing actor")
	}
	if err := s.AppendEvent("act-a", "  ", "eq-a", nil); err == nil {
		t.Fatalf("expected error for missing type")
	}
	if err := s.AppendEvent("act-a", "equipment.create", "", nil); err == nil {
		t.Fatalf("expected error for missing entity")
	}
}

func TestReadEvents_ChronologicalWithEntityFilterAndLimit(t *testing.T) {
	dir := t.TempDir()
	s := Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	appends := []struct {
		typ, entity string
	}{
		{"equipment.create", "eq-a"},
		{"equipment.reorder", "line-a"},
		{"equipment.set-status", "eq-a"},
		{"workorder.create", "wo-a"},
	}
	for _, a := range appends {
		if err := s.AppendEvent("act-a", a.typ, a.entity, map[string]string{"t": a.typ}); err != nil {
			t.Fatalf("append %s: %v", a.typ, err)
		}
	}

	all, err := ReadEvents(dir, 0)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len(all) = %d, want 4", len(all))
	}
	for i, a := range appends {
		if all[i].Type != a.typ || all[i].EntityID != a.entity {
			t.Fatalf("event %d = %s/%s, want %s/%s", i, all[i].Type, all[i].EntityID, a.typ, a.entity)
		}
		if all[i].ID == "" || all[i].ActorID != "act-a" {
			t.Fatalf("event %d missing id/actor: %+v", i, all[i])
		}
	}
	if !sortedByTime(all) {
		t.Fatalf("events not chronological: %+v", all)
	}

	byEq, err := ReadEventsForEntity(dir, "eq-a", 0)
	if err != nil {
		t.Fatalf("read entity: %v", err)
	}
	if len(byEq) != 2 || byEq[0].Type != "equipment.create" || byEq[1].Type != "equipment.set-status" {
		t.Fatalf("unexpected entity events: %+v", byEq)
	}

	limited, err := ReadEvents(dir, 2)
	if err != nil {
		t.Fatalf("read limited: %v", err)
	}
	if len(limited) != 2 || limited[0].Type != "equipment.create" {
		t.Fatalf("unexpected limited events: %+v", limited)
	}
}

func TestReadEventsForEntity_EmptyIDReturnsNothing(t *testing.T) {
	dir := t.TempDir()
	s := Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	got, err := ReadEventsForEntity(dir, "  ", 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no events, got %+v", got)
	}
}

func TestEventsSurviveStateSave(t *testing.T) {
	dir := t.TempDir()
	s := Store{Dir: dir}

	if err := s.Save(&DB{Version: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.AppendEvent("act-a", "equipment.create", "eq-a", nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	// A later state save must not touch the audit trail.
	if err := s.Save(&DB{Version: 1, Equipment: []model.Equipment{{ID: "eq-a", UpdatedAt: time.Now().UTC()}}}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := ReadEvents(dir, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].EntityID != "eq-a" {
		t.Fatalf("expected surviving event, got %+v", got)
	}
}

func sortedByTime(evs []model.Event) bool {
	for i := 1; i < len(evs); i++ {
		if evs[i].TS.Before(evs[i-1].TS) {
			return false
		}
	}
	return true
}
