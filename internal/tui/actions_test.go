package tui

import (
	"testing"
	"time"

	"plantdeck/internal/model"
	"plantdeck/internal/store"
)

// seedMaintenance adds one open work order and one pending inspection for
// eq-a, then reloads the model.
func seedMaintenance(t *testing.T, m *appModel, dir string) {
	t.Helper()
	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	now := time.Now().UTC()
	db.WorkOrders = []model.WorkOrder{
		{ID: "wo-1", EquipmentID: "eq-a", Title: "Replace seal", StatusID: model.WorkOrderStatusOpen, CreatedBy: "act-ada", CreatedAt: now, UpdatedAt: now},
	}
	db.Inspections = []model.Inspection{
		{ID: "insp-1", EquipmentID: "eq-a", Checkpoint: "torque", Result: model.InspectionResultPending, InspectorID: "act-ada", CreatedAt: now},
	}
	if err := s.Save(db); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.reloadFromDisk(); err != nil {
		t.Fatalf("reload: %v", err)
	}
}

func TestAdvanceSelectedWorkOrder_StepsAndLogs(t *testing.T) {
	m, dir := newTestModel(t)
	seedMaintenance(t, &m, dir)

	m.tab = tabMaintenance
	m.refreshLineTab()
	m.workOrdersList.Select(0)

	m.advanceSelectedWorkOrder()
	db, err := (store.Store{Dir: dir}).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	wo, ok := db.FindWorkOrder("wo-1")
	if !ok || wo.StatusID != model.WorkOrderStatusInProgress {
		t.Fatalf("work order after first advance: %+v", wo)
	}

	m.advanceSelectedWorkOrder()
	db, err = (store.Store{Dir: dir}).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	wo, _ = db.FindWorkOrder("wo-1")
	if wo.StatusID != model.WorkOrderStatusDone {
		t.Fatalf("work order after second advance: %+v", wo)
	}

	// Done is terminal; a third advance changes nothing.
	m.advanceSelectedWorkOrder()
	db, _ = (store.Store{Dir: dir}).Load()
	wo, _ = db.FindWorkOrder("wo-1")
	if wo.StatusID != model.WorkOrderStatusDone {
		t.Fatalf("done order moved: %+v", wo)
	}

	evs, err := store.ReadEventsForEntity(dir, "wo-1", 0)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("got %d transition events, want 2", len(evs))
	}
}

func TestRecordSelectedInspection_SetsResult(t *testing.T) {
	m, dir := newTestModel(t)
	seedMaintenance(t, &m, dir)

	m.tab = tabQuality
	m.refreshLineTab()
	m.inspectionsList.Select(0)

	m.recordSelectedInspection(model.InspectionResultFail)

	db, err := (store.Store{Dir: dir}).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	insp, ok := db.FindInspection("insp-1")
	if !ok || insp.Result != model.InspectionResultFail {
		t.Fatalf("inspection after record: %+v", insp)
	}
}

func TestArchiveEquipment_HidesFromLine(t *testing.T) {
	m, dir := newTestModel(t)

	m.equipmentList.Select(2) // eq-c
	m.openArchiveConfirm()
	if m.confirmArchiveID != "eq-c" {
		t.Fatalf("confirm target = %q, want eq-c", m.confirmArchiveID)
	}

	m.archiveEquipment(m.confirmArchiveID)
	m.confirmArchiveID = ""

	if got := lineOrder(t, dir); len(got) != 2 {
		t.Fatalf("line still shows %v", got)
	}
	db, _ := (store.Store{Dir: dir}).Load()
	eq, ok := db.FindEquipment("eq-c")
	if !ok || !eq.Archived {
		t.Fatalf("eq-c not archived: %+v", eq)
	}
}

func TestCreateWorkOrder_AttachesToSelectedEquipment(t *testing.T) {
	m, dir := newTestModel(t)

	m.equipmentList.Select(1) // eq-b
	m.createWorkOrder("Lubricate chain")

	db, err := (store.Store{Dir: dir}).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	wos := db.WorkOrdersForEquipment("eq-b")
	if len(wos) != 1 {
		t.Fatalf("got %d work orders for eq-b, want 1", len(wos))
	}
	if wos[0].Title != "Lubricate chain" || wos[0].StatusID != model.WorkOrderStatusOpen {
		t.Fatalf("unexpected work order: %+v", wos[0])
	}
}
