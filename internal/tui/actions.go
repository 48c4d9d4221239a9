package tui

import (
	"strings"
	"time"

	"plantdeck/internal/model"
	"plantdeck/internal/mutate"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Line-view interactions beyond navigation: advancing work orders, recording
// inspection results, archiving equipment (behind a confirm), and a minimal
// new-work-order prompt.

func (m *appModel) listFiltering() bool {
	switch m.tab {
	case tabMaintenance:
		return m.workOrdersList.FilterState() == list.Filtering
	case tabQuality:
		return m.inspectionsList.FilterState() == list.Filtering
	default:
		return m.equipmentList.FilterState() == list.Filtering
	}
}

// updateArchiveConfirm consumes keys while the archive confirm is showing.
func (m appModel) updateArchiveConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := m.confirmArchiveID
		m.confirmArchiveID = ""
		m.archiveEquipment(id)
	case "n", "N", "esc", "q":
		m.confirmArchiveID = ""
	}
	return m, nil
}

// updateWorkOrderPrompt consumes keys while the new-work-order prompt is open.
func (m appModel) updateWorkOrderPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.woInputActive = false
		m.woInput.Reset()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.woInput.Value())
		m.woInputActive = false
		m.woInput.Reset()
		if title != "" {
			m.createWorkOrder(title)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.woInput, cmd = m.woInput.Update(msg)
	return m, cmd
}

func (m *appModel) openArchiveConfirm() {
	if it, ok := m.equipmentList.SelectedItem().(equipmentRowItem); ok {
		m.confirmArchiveID = it.eq.ID
	}
}

func (m *appModel) openWorkOrderPrompt() {
	// The prompt attaches the work order to the unit selected on the
	// equipment tab; without one there is nothing to attach to.
	if _, ok := m.equipmentList.SelectedItem().(equipmentRowItem); !ok {
		return
	}
	m.woInputActive = true
	m.woInput.Focus()
}

func (m *appModel) archiveEquipment(equipmentID string) {
	actorID := m.db.CurrentActorID
	if actorID == "" || equipmentID == "" {
		return
	}
	res, err := mutate.SetEquipmentArchived(m.db, actorID, equipmentID, true)
	if err != nil || !res.Changed {
		return
	}
	if err := m.store.Save(m.db); err != nil {
		return
	}
	_ = m.store.AppendEvent(actorID, "equipment.archive", equipmentID, res.EventPayload)
	_ = m.reloadFromDisk()
}

// advanceSelectedWorkOrder steps the selection forward: open starts, in
// progress completes. Done orders stay done.
func (m *appModel) advanceSelectedWorkOrder() {
	actorID := m.db.CurrentActorID
	it, ok := m.workOrdersList.SelectedItem().(workOrderRowItem)
	if actorID == "" || !ok {
		return
	}
	var next string
	switch it.wo.StatusID {
	case model.WorkOrderStatusOpen:
		next = model.WorkOrderStatusInProgress
	case model.WorkOrderStatusInProgress:
		next = model.WorkOrderStatusDone
	default:
		return
	}
	res, err := mutate.TransitionWorkOrder(m.db, actorID, it.wo.ID, next)
	if err != nil || !res.Changed {
		return
	}
	if err := m.store.Save(m.db); err != nil {
		return
	}
	_ = m.store.AppendEvent(actorID, "workorder.transition", it.wo.ID, res.EventPayload)
	_ = m.reloadFromDisk()
	selectListItemByID(&m.workOrdersList, it.wo.ID)
}

// recordSelectedInspection resolves the selected inspection to result.
func (m *appModel) recordSelectedInspection(result string) {
	actorID := m.db.CurrentActorID
	it, ok := m.inspectionsList.SelectedItem().(inspectionRowItem)
	if actorID == "" || !ok {
		return
	}
	res, err := mutate.SetInspectionResult(m.db, actorID, it.insp.ID, result)
	if err != nil || !res.Changed {
		return
	}
	if err := m.store.Save(m.db); err != nil {
		return
	}
	_ = m.store.AppendEvent(actorID, "inspection.set_result", it.insp.ID, res.EventPayload)
	_ = m.reloadFromDisk()
	selectListItemByID(&m.inspectionsList, it.insp.ID)
}

func (m *appModel) createWorkOrder(title string) {
	actorID := m.db.CurrentActorID
	it, ok := m.equipmentList.SelectedItem().(equipmentRowItem)
	if actorID == "" || !ok {
		return
	}
	now := time.Now().UTC()
	wo := model.WorkOrder{
		ID:          m.store.NextID(m.db, "wo"),
		EquipmentID: it.eq.ID,
		Title:       title,
		StatusID:    model.WorkOrderStatusOpen,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.db.WorkOrders = append(m.db.WorkOrders, wo)
	if err := m.store.Save(m.db); err != nil {
		return
	}
	_ = m.store.AppendEvent(actorID, "workorder.create", wo.ID, map[string]any{
		"equipmentId": wo.EquipmentID,
		"title":       wo.Title,
	})
	_ = m.reloadFromDisk()
	selectListItemByID(&m.workOrdersList, wo.ID)
}
