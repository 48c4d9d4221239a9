package tui

import (
	"time"

	"plantdeck/internal/model"
	"plantdeck/internal/reorder"
	"plantdeck/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// dragController owns the mouse gesture state for the equipment list. A
// gesture is: left press on a row picks it up, motion over other rows
// reorders live, release commits the final order through onDrop.
//
// The controller is held by pointer on the app model so the gesture survives
// bubbletea's value-copy of the model between updates.
type dragController struct {
	session *reorder.Session[model.Equipment]
	movedID string

	// onDrop receives the final order and the id of the carried unit. It
	// fires exactly once per gesture, on release.
	onDrop func(final []model.Equipment, movedID string)
}

func newDragController(onDrop func(final []model.Equipment, movedID string)) *dragController {
	return &dragController{onDrop: onDrop}
}

func (d *dragController) dragging() bool {
	return d.session != nil && d.session.Dragging()
}

// draggingID returns the id of the unit currently being carried.
func (d *dragController) draggingID() string {
	if !d.dragging() {
		return ""
	}
	return d.movedID
}

// order returns the live order of the in-flight gesture.
func (d *dragController) order() []model.Equipment {
	if d.session == nil {
		return nil
	}
	return d.session.Items()
}

// press starts a gesture on rows[index].
func (d *dragController) press(rows []model.Equipment, index int) {
	if index < 0 || index >= len(rows) {
		return
	}
	d.movedID = rows[index].ID
	d.session = reorder.NewSession(rows, nil)
	d.session.Begin(index)
}

// moveOver relocates the carried unit to index. Returns true when the order
// changed and the list should re-render.
func (d *dragController) moveOver(index int) bool {
	if !d.dragging() {
		return false
	}
	active, _ := d.session.Active()
	if index == active {
		return false
	}
	d.session.Enter(index)
	return true
}

// release ends the gesture and fires onDrop with the final order.
func (d *dragController) release() {
	if !d.dragging() {
		return
	}
	final := d.session.Items()
	movedID := d.movedID
	d.session.Drop()
	d.session = nil
	d.movedID = ""
	if d.onDrop != nil {
		d.onDrop(final, movedID)
	}
}

// cancel abandons the gesture without committing.
func (d *dragController) cancel() {
	if d.session != nil {
		d.session.Cancel()
	}
	d.session = nil
	d.movedID = ""
}

// handleMouse routes mouse events to the drag controller. Only the equipment
// tab of the line view is drag-enabled.
func (m *appModel) handleMouse(msg tea.MouseMsg) {
	if m.view != viewLine || m.tab != tabEquipment {
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		rows := m.visibleEquipment()
		if idx, ok := m.equipmentRowAt(msg, rows); ok {
			m.drag.press(rows, idx)
			m.refreshEquipmentRows(m.drag.order())
		}

	case tea.MouseActionMotion:
		if !m.drag.dragging() {
			return
		}
		if idx, ok := m.equipmentRowAt(msg, m.drag.order()); ok {
			if m.drag.moveOver(idx) {
				m.refreshEquipmentRows(m.drag.order())
				m.equipmentList.Select(idx)
			}
		}

	case tea.MouseActionRelease:
		if m.drag.dragging() && msg.Button == tea.MouseButtonLeft {
			m.drag.release()
			_ = m.reloadFromDisk()
		}
	}
}

// equipmentRowAt resolves the mouse position to an index in rows using the
// zones marked by the row delegate during the last render.
func (m *appModel) equipmentRowAt(msg tea.MouseMsg, rows []model.Equipment) (int, bool) {
	for i, eq := range rows {
		if zone.Get(equipmentZoneID(eq.ID)).InBounds(msg) {
			return i, true
		}
	}
	return 0, false
}

// persistDrop writes the dropped order back to the store: the carried unit
// gets a fresh rank (rebalancing neighbors only when the gap is exhausted),
// and the move is recorded in the event log.
func (m *appModel) persistDrop(final []model.Equipment, movedID string) error {
	insertAt := -1
	for i, eq := range final {
		if eq.ID == movedID {
			insertAt = i
			break
		}
	}
	if insertAt < 0 {
		return nil
	}

	rows := m.db.LineEquipment(m.selectedLineID)
	current := make([]*model.Equipment, len(rows))
	for i := range rows {
		current[i] = &rows[i]
	}
	plan, err := store.PlanRankMoves(current, movedID, insertAt)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for id, rank := range plan.RankByID {
		if eq, ok := m.db.FindEquipment(id); ok {
			eq.Rank = rank
			eq.UpdatedAt = now
		}
	}
	if err := m.store.Save(m.db); err != nil {
		return err
	}

	actorID := m.db.CurrentActorID
	if actorID != "" {
		_ = m.store.AppendEvent(actorID, "equipment.reorder", movedID, map[string]any{
			"lineId":       m.selectedLineID,
			"insertAt":     insertAt,
			"rankById":     plan.RankByID,
			"usedFallback": plan.UsedFallback,
		})
	}
	return nil
}
