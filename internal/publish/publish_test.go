package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"plantdeck/internal/model"
	"plantdeck/internal/store"
)

func publishDB() *store.DB {
	assignee := "act-bo"
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &store.DB{
		Actors: []model.Actor{
			{ID: "act-ada", Kind: model.ActorKindHuman, Name: "Ada"},
			{ID: "act-bo", Kind: model.ActorKindHuman, Name: "Bo"},
		},
		Facilities: []model.Facility{
			{ID: "fac-1", Name: "North Plant", Site: "Oslo", CreatedBy: "act-ada", CreatedAt: t0},
		},
		Lines: []model.Line{
			{ID: "line-1", FacilityID: "fac-1", Name: "Bottling 1", CreatedBy: "act-ada", CreatedAt: t0},
		},
		Equipment: []model.Equipment{
			{
				ID: "eq-a", FacilityID: "fac-1", LineID: "line-1", Rank: "h",
				Name: "Filler 3", Kind: "filler", Serial: "F3-889",
				StatusID: model.EquipmentStatusDown, Critical: true,
				Notes: "Seal kit on order.", Tags: []string{"cip", "aseptic"},
				OwnerActorID: "act-ada", AssignedActorID: &assignee,
				CreatedBy: "act-ada", CreatedAt: t0, UpdatedAt: t0,
			},
			{
				ID: "eq-b", FacilityID: "fac-1", LineID: "line-1", Rank: "q",
				Name: "Capper", StatusID: model.EquipmentStatusOperational,
				OwnerActorID: "act-ada", CreatedBy: "act-ada", CreatedAt: t0, UpdatedAt: t0,
			},
			{
				ID: "eq-c", FacilityID: "fac-1", LineID: "line-1", Rank: "u",
				Name: "Old Labeler", StatusID: model.EquipmentStatusRetired, Archived: true,
				OwnerActorID: "act-ada", CreatedBy: "act-ada", CreatedAt: t0, UpdatedAt: t0,
			},
		},
		WorkOrders: []model.WorkOrder{
			{
				ID: "wo-1", EquipmentID: "eq-a", Title: "Replace seal kit",
				StatusID: model.WorkOrderStatusOpen, DueDate: "2025-03-10",
				CreatedBy: "act-ada", CreatedAt: t0, UpdatedAt: t0,
			},
		},
		Inspections: []model.Inspection{
			{
				ID: "insp-1", EquipmentID: "eq-a", Checkpoint: "torque",
				Result: model.InspectionResultFail, Measured: "12 Nm",
				InspectorID: "act-bo", CreatedAt: t0,
			},
		},
	}
}

func TestRenderEquipmentMarkdown_Sections(t *testing.T) {
	db := publishDB()
	md, err := RenderEquipmentMarkdown(db, "eq-a", RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"# Filler 3",
		"## Meta",
		"- ID: eq-a",
		"- Facility: North Plant (fac-1)",
		"- Line: Bottling 1 (line-1)",
		"- Status: down",
		"- Critical: true",
		"- Serial: F3-889",
		"- Assigned: act-bo",
		"- Tags: aseptic, cip",
		"## Notes",
		"Seal kit on order.",
		"## Work orders",
		"- [open] Replace seal kit (wo-1) due 2025-03-10",
		"## Inspections",
		"- [fail] torque (2025-03-01) measured 12 Nm",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in:\n%s", want, md)
		}
	}
}

func TestRenderEquipmentMarkdown_ArchivedRequiresOptIn(t *testing.T) {
	db := publishDB()
	if _, err := RenderEquipmentMarkdown(db, "eq-c", RenderOptions{}); err == nil {
		t.Fatalf("expected error for archived equipment")
	}
	md, err := RenderEquipmentMarkdown(db, "eq-c", RenderOptions{IncludeArchived: true})
	if err != nil {
		t.Fatalf("render archived: %v", err)
	}
	if !strings.Contains(md, "- Archived: true") {
		t.Fatalf("missing archived flag in:\n%s", md)
	}
}

func TestWriteEquipment_OverwriteGuard(t *testing.T) {
	db := publishDB()
	dir := t.TempDir()

	res, err := WriteEquipment(db, "eq-a", dir, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	wantPath := filepath.Join(dir, "equipment", "eq-a.md")
	if len(res.Written) != 1 || res.Written[0] != wantPath {
		t.Fatalf("unexpected written: %+v", res.Written)
	}
	b, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(b), "# Filler 3") {
		t.Fatalf("unexpected content:\n%s", b)
	}

	if _, err := WriteEquipment(db, "eq-a", dir, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected overwrite guard, got %v", err)
	}
	if _, err := WriteEquipment(db, "eq-a", dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestWriteLine_IndexAndUnitPages(t *testing.T) {
	db := publishDB()
	dir := t.TempDir()

	res, err := WriteLine(db, "line-1", dir, WriteOptions{})
	if err != nil {
		t.Fatalf("write line: %v", err)
	}
	// Index plus the two non-archived units, in rank order.
	want := []string{
		filepath.Join(dir, "lines", "line-1", "index.md"),
		filepath.Join(dir, "lines", "line-1", "equipment", "eq-a.md"),
		filepath.Join(dir, "lines", "line-1", "equipment", "eq-b.md"),
	}
	if len(res.Written) != len(want) {
		t.Fatalf("written %d paths, want %d: %+v", len(res.Written), len(want), res.Written)
	}
	for i, p := range want {
		if res.Written[i] != p {
			t.Fatalf("written[%d] = %q, want %q", i, res.Written[i], p)
		}
	}

	b, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	idx := string(b)
	for _, s := range []string{
		"# Bottling 1",
		"- Facility: North Plant (fac-1)",
		"- [Filler 3](equipment/eq-a.md) — down (critical)",
		"- [Capper](equipment/eq-b.md) — operational",
	} {
		if !strings.Contains(idx, s) {
			t.Fatalf("missing %q in index:\n%s", s, idx)
		}
	}
	if strings.Contains(idx, "eq-c") {
		t.Fatalf("archived unit leaked into index:\n%s", idx)
	}
}

func TestWriteLine_UnknownLine(t *testing.T) {
	db := publishDB()
	if _, err := WriteLine(db, "line-ghost", t.TempDir(), WriteOptions{}); err == nil {
		t.Fatalf("expected error for unknown line")
	}
}
