package tui

import (
	"fmt"
	"strings"

	"plantdeck/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

type facilityItem struct {
	facility model.Facility
	current  bool
	lines    int
}

func (i facilityItem) FilterValue() string { return i.facility.Name }
func (i facilityItem) Title() string {
	t := i.facility.Name
	if s := strings.TrimSpace(i.facility.Site); s != "" {
		t += "  " + lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render("("+s+")")
	}
	if i.current {
		t += " *"
	}
	return t
}
func (i facilityItem) Description() string {
	if i.lines == 1 {
		return i.facility.ID + "  1 line"
	}
	return fmt.Sprintf("%s  %d lines", i.facility.ID, i.lines)
}

type lineItem struct {
	line      model.Line
	equipment int
}

func (i lineItem) FilterValue() string { return i.line.Name }
func (i lineItem) Title() string       { return i.line.Name }
func (i lineItem) Description() string {
	if i.equipment == 1 {
		return i.line.ID + "  1 unit"
	}
	return fmt.Sprintf("%s  %d units", i.line.ID, i.equipment)
}

// equipmentRowItem is one row of the reorderable equipment list. dragging
// marks the row that is currently being carried by a mouse gesture.
type equipmentRowItem struct {
	eq             model.Equipment
	assignedLabel  string
	openWorkOrders int
	dragging       bool
}

func (i equipmentRowItem) FilterValue() string { return i.eq.Name }
func (i equipmentRowItem) Title() string {
	status := renderEquipmentStatus(i.eq.StatusID)
	name := strings.TrimSpace(i.eq.Name)
	if name == "" {
		name = "(unnamed)"
	}

	metaParts := make([]string, 0, 8)
	if i.eq.Critical {
		metaParts = append(metaParts, lipgloss.NewStyle().Foreground(colorStatusDown).Bold(true).Render("critical"))
	}
	if lbl := strings.TrimSpace(i.assignedLabel); lbl != "" {
		metaParts = append(metaParts, lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render("@"+lbl))
	}
	for _, tag := range i.eq.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		metaParts = append(metaParts, lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render("#"+tag))
	}
	if i.openWorkOrders > 0 {
		metaParts = append(metaParts, lipgloss.NewStyle().Foreground(colorStatusMaintenance).Render(fmt.Sprintf("%d wo", i.openWorkOrders)))
	}
	meta := ""
	if len(metaParts) > 0 {
		meta = "  " + strings.Join(metaParts, " ")
	}

	if strings.TrimSpace(status) == "" {
		return name + meta
	}
	return status + " " + name + meta
}
func (i equipmentRowItem) Description() string { return "" }

type workOrderRowItem struct {
	wo            model.WorkOrder
	equipmentName string
}

func (i workOrderRowItem) FilterValue() string { return i.wo.Title }
func (i workOrderRowItem) Title() string {
	status := renderWorkOrderStatus(i.wo.StatusID)
	t := strings.TrimSpace(i.wo.Title)
	if t == "" {
		t = "(untitled)"
	}
	parts := []string{status, t}
	if i.wo.Priority {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorStatusDown).Bold(true).Render("priority"))
	}
	if d := strings.TrimSpace(i.wo.DueDate); d != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render("due "+d))
	}
	if n := strings.TrimSpace(i.equipmentName); n != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render(n))
	}
	return strings.Join(parts, " ")
}
func (i workOrderRowItem) Description() string { return "" }

type inspectionRowItem struct {
	insp          model.Inspection
	equipmentName string
}

func (i inspectionRowItem) FilterValue() string { return i.insp.Checkpoint }
func (i inspectionRowItem) Title() string {
	result := renderInspectionResult(i.insp.Result)
	cp := strings.TrimSpace(i.insp.Checkpoint)
	if cp == "" {
		cp = "(checkpoint)"
	}
	parts := []string{result, cp}
	if m := strings.TrimSpace(i.insp.Measured); m != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render(m))
	}
	if n := strings.TrimSpace(i.equipmentName); n != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render(n))
	}
	return strings.Join(parts, " ")
}
func (i inspectionRowItem) Description() string { return "" }

func renderEquipmentStatus(statusID string) string {
	txt := strings.ToUpper(strings.TrimSpace(statusID))
	if txt == "" {
		return ""
	}
	st := lipgloss.NewStyle().Bold(true)
	switch statusID {
	case model.EquipmentStatusDown:
		st = st.Foreground(colorStatusDown)
	case model.EquipmentStatusMaintenance:
		st = st.Foreground(colorStatusMaintenance)
	case model.EquipmentStatusRetired:
		st = st.Foreground(colorStatusRetired)
	default:
		st = st.Foreground(colorStatusOperational)
	}
	return st.Render(txt)
}

func renderWorkOrderStatus(statusID string) string {
	st := lipgloss.NewStyle().Bold(true)
	switch statusID {
	case model.WorkOrderStatusDone:
		st = st.Foreground(colorStatusRetired)
	case model.WorkOrderStatusInProgress:
		st = st.Foreground(colorStatusMaintenance)
	default:
		st = st.Foreground(colorStatusOperational)
	}
	return st.Render(strings.ToUpper(strings.TrimSpace(statusID)))
}

func renderInspectionResult(result string) string {
	st := lipgloss.NewStyle().Bold(true)
	switch result {
	case model.InspectionResultFail:
		st = st.Foreground(colorStatusDown)
	case model.InspectionResultPass:
		st = st.Foreground(colorStatusOperational)
	default:
		st = st.Foreground(colorChromeMutedFg)
	}
	return st.Render(strings.ToUpper(strings.TrimSpace(result)))
}

func newList(items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	// Bubble list defaults to quitting on ESC; here ESC is "back".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases (common muscle memory).
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

func newCompactList(items []list.Item) list.Model {
	l := newList(items)
	l.SetDelegate(newCompactRowDelegate())
	return l
}
