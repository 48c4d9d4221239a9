package tui

import (
	"fmt"
	"strings"
	"time"

	"plantdeck/internal/model"
	"plantdeck/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

type view int

const (
	viewFacilities view = iota
	viewLines
	viewLine
)

type lineTab int

const (
	tabEquipment lineTab = iota
	tabMaintenance
	tabQuality
)

func (t lineTab) label() string {
	switch t {
	case tabMaintenance:
		return "Maintenance"
	case tabQuality:
		return "Quality"
	default:
		return "Equipment"
	}
}

type reloadTickMsg struct{}

type appModel struct {
	dir       string
	workspace string
	store     store.Store
	db        *store.DB

	width  int
	height int

	view view
	tab  lineTab

	facilitiesList  list.Model
	linesList       list.Model
	equipmentList   list.Model
	workOrdersList  list.Model
	inspectionsList list.Model

	selectedFacilityID string
	selectedLineID     string

	drag *dragController

	// confirmArchiveID holds the unit awaiting archive confirmation.
	confirmArchiveID string
	woInput          textinput.Model
	woInputActive    bool

	lastModTime time.Time
}

func newAppModel(dir string, db *store.DB, workspace string) appModel {
	s := store.Store{Dir: dir}
	m := appModel{
		dir:       dir,
		workspace: workspace,
		store:     s,
		db:        db,
		view:      viewFacilities,
		tab:       tabEquipment,
	}

	m.facilitiesList = newList([]list.Item{})
	m.linesList = newList([]list.Item{})
	m.equipmentList = newCompactList([]list.Item{})
	m.workOrdersList = newCompactList([]list.Item{})
	m.inspectionsList = newCompactList([]list.Item{})

	m.drag = newDragController(nil)

	m.woInput = textinput.New()
	m.woInput.Placeholder = "Work order title"
	m.woInput.CharLimit = 120

	m.refreshFacilities()
	m.lastModTime = s.ModTime()
	return m
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// onDrop closes over the model from the previous update; rebind every
	// pass so persistence sees current selection state.
	m.drag.onDrop = func(final []model.Equipment, movedID string) {
		_ = m.persistDrop(final, movedID)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case reloadTickMsg:
		// Skip reloads mid-gesture: the live order is authoritative until drop.
		if !m.drag.dragging() && m.storeChanged() {
			_ = m.reloadFromDisk()
		}
		return m, tickReload()

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.woInputActive {
			return m.updateWorkOrderPrompt(msg)
		}
		if m.confirmArchiveID != "" {
			return m.updateArchiveConfirm(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			// Reload from disk (so running CLI commands in another terminal is reflected).
			_ = m.reloadFromDisk()
			return m, nil
		case "esc", "backspace":
			if m.drag.dragging() {
				m.drag.cancel()
				_ = m.reloadFromDisk()
				return m, nil
			}
			switch m.view {
			case viewLine:
				m.view = viewLines
				m.refreshLines(m.selectedFacilityID)
				return m, nil
			case viewLines:
				m.view = viewFacilities
				m.refreshFacilities()
				return m, nil
			}
		case "tab":
			if m.view == viewLine {
				m.tab = (m.tab + 1) % 3
				m.refreshLineTab()
				return m, nil
			}
		case "shift+tab":
			if m.view == viewLine {
				m.tab = (m.tab + 2) % 3
				m.refreshLineTab()
				return m, nil
			}
		case "alt+up", "alt+k":
			if m.view == viewLine && m.tab == tabEquipment {
				m.moveSelectedEquipment(-1)
				return m, nil
			}
		case "alt+down", "alt+j":
			if m.view == viewLine && m.tab == tabEquipment {
				m.moveSelectedEquipment(+1)
				return m, nil
			}
		case "x":
			if m.view == viewLine && m.tab == tabEquipment && !m.listFiltering() {
				m.openArchiveConfirm()
				return m, nil
			}
		case "n":
			if m.view == viewLine && m.tab == tabMaintenance && !m.listFiltering() {
				m.openWorkOrderPrompt()
				return m, textinput.Blink
			}
		case "p":
			if m.view == viewLine && m.tab == tabQuality && !m.listFiltering() {
				m.recordSelectedInspection(model.InspectionResultPass)
				return m, nil
			}
		case "f":
			if m.view == viewLine && m.tab == tabQuality && !m.listFiltering() {
				m.recordSelectedInspection(model.InspectionResultFail)
				return m, nil
			}
		case "enter":
			switch m.view {
			case viewFacilities:
				if it, ok := m.facilitiesList.SelectedItem().(facilityItem); ok {
					m.selectedFacilityID = it.facility.ID
					m.db.CurrentFacilityID = it.facility.ID
					_ = m.store.Save(m.db)
					m.view = viewLines
					m.refreshLines(it.facility.ID)
					return m, nil
				}
			case viewLines:
				if it, ok := m.linesList.SelectedItem().(lineItem); ok {
					m.selectedLineID = it.line.ID
					m.view = viewLine
					m.tab = tabEquipment
					m.refreshLineTab()
					return m, nil
				}
			case viewLine:
				if m.tab == tabMaintenance && !m.listFiltering() {
					m.advanceSelectedWorkOrder()
					return m, nil
				}
			}
		}
	}

	// Let the active list handle navigation keys.
	var cmd tea.Cmd
	switch m.view {
	case viewFacilities:
		m.facilitiesList, cmd = m.facilitiesList.Update(msg)
	case viewLines:
		m.linesList, cmd = m.linesList.Update(msg)
	case viewLine:
		switch m.tab {
		case tabMaintenance:
			m.workOrdersList, cmd = m.workOrdersList.Update(msg)
		case tabQuality:
			m.inspectionsList, cmd = m.inspectionsList.Update(msg)
		default:
			m.equipmentList, cmd = m.equipmentList.Update(msg)
		}
	}
	return m, cmd
}

func (m appModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("plantdeck  Workspace=%s  Actor=%s  Facility=%s",
		emptyAsDash(m.workspace),
		emptyAsDash(m.db.CurrentActorID),
		emptyAsDash(m.db.CurrentFacilityID),
	))

	var body string
	switch m.view {
	case viewFacilities:
		body = m.facilitiesList.View()
	case viewLines:
		body = m.linesList.View()
	case viewLine:
		body = m.viewLineBody()
	}

	footer := footerStyle.Render(m.footerHelp())
	// zone.Scan records row positions for mouse hit testing.
	return zone.Scan(strings.Join([]string{header, body, footer}, "\n\n"))
}

func (m appModel) footerHelp() string {
	if m.confirmArchiveID != "" {
		name := m.confirmArchiveID
		if eq, ok := m.db.FindEquipment(m.confirmArchiveID); ok {
			name = eq.Name
		}
		return "archive " + name + "? y/n"
	}
	if m.woInputActive {
		return "enter: create work order  esc: cancel"
	}
	switch m.view {
	case viewLine:
		switch m.tab {
		case tabMaintenance:
			return "enter: advance  n: new  tab: switch tab  esc: back  r: reload  q: quit"
		case tabQuality:
			return "p/f: pass/fail  tab: switch tab  esc: back  r: reload  q: quit"
		default:
			return "drag or alt+↑/↓: reorder  x: archive  tab: switch tab  esc: back  r: reload  q: quit"
		}
	default:
		return "enter: select  esc: back  r: reload  q: quit"
	}
}

func (m appModel) viewLineBody() string {
	tabs := make([]string, 0, 3)
	for _, t := range []lineTab{tabEquipment, tabMaintenance, tabQuality} {
		st := tabInactiveStyle
		if t == m.tab {
			st = tabActiveStyle
		}
		tabs = append(tabs, st.Render(t.label()))
	}
	tabBar := strings.Join(tabs, "  ")

	switch m.tab {
	case tabMaintenance:
		body := m.workOrdersList.View()
		if m.woInputActive {
			body = m.woInput.View() + "\n\n" + body
		}
		return tabBar + "\n\n" + body
	case tabQuality:
		return tabBar + "\n\n" + m.inspectionsList.View()
	}

	bodyHeight := m.bodyHeight()
	leftWidth := m.width / 2
	if leftWidth < 40 {
		leftWidth = 40
	}
	rightWidth := m.width - leftWidth - 2
	if rightWidth < 30 {
		rightWidth = 30
	}
	m.equipmentList.SetSize(leftWidth, bodyHeight)

	left := m.equipmentList.View()
	var detail string
	if it, ok := m.equipmentList.SelectedItem().(equipmentRowItem); ok {
		detail = renderEquipmentDetail(m.db, it.eq, rightWidth, bodyHeight)
	} else {
		detail = lipgloss.NewStyle().Width(rightWidth).Height(bodyHeight).Render("No equipment selected.")
	}

	return tabBar + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, detail)
}

func (m *appModel) bodyHeight() int {
	h := m.height - 8
	if h < 8 {
		h = 8
	}
	return h
}

func (m *appModel) resizeLists() {
	h := m.bodyHeight()
	w := m.width
	if w < 40 {
		w = 40
	}
	m.facilitiesList.SetSize(w, h)
	m.linesList.SetSize(w, h)
	m.workOrdersList.SetSize(w, h)
	m.inspectionsList.SetSize(w, h)
	// Line view is split.
	m.equipmentList.SetSize(w/2, h)
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func (m *appModel) refreshFacilities() {
	curID := ""
	if it, ok := m.facilitiesList.SelectedItem().(facilityItem); ok {
		curID = it.facility.ID
	}
	linesByFacility := map[string]int{}
	for _, l := range m.db.Lines {
		if !l.Archived {
			linesByFacility[l.FacilityID]++
		}
	}
	var items []list.Item
	for _, f := range m.db.Facilities {
		if f.Archived {
			continue
		}
		items = append(items, facilityItem{
			facility: f,
			current:  f.ID == m.db.CurrentFacilityID,
			lines:    linesByFacility[f.ID],
		})
	}
	m.facilitiesList.SetItems(items)
	if curID != "" {
		selectListItemByID(&m.facilitiesList, curID)
	}
}

func (m *appModel) refreshLines(facilityID string) {
	curID := ""
	if it, ok := m.linesList.SelectedItem().(lineItem); ok {
		curID = it.line.ID
	}
	var items []list.Item
	for _, l := range m.db.Lines {
		if l.FacilityID != facilityID || l.Archived {
			continue
		}
		items = append(items, lineItem{line: l, equipment: len(m.db.LineEquipment(l.ID))})
	}
	m.linesList.SetItems(items)
	if curID != "" {
		selectListItemByID(&m.linesList, curID)
	}
}

func (m *appModel) refreshLineTab() {
	switch m.tab {
	case tabMaintenance:
		m.refreshWorkOrders()
	case tabQuality:
		m.refreshInspections()
	default:
		m.refreshEquipmentRows(m.db.LineEquipment(m.selectedLineID))
	}
}

// refreshEquipmentRows rebuilds the equipment list from rows, preserving the
// selection and marking the row carried by an in-flight drag.
func (m *appModel) refreshEquipmentRows(rows []model.Equipment) {
	curID := m.drag.draggingID()
	if curID == "" {
		if it, ok := m.equipmentList.SelectedItem().(equipmentRowItem); ok {
			curID = it.eq.ID
		}
	}
	items := make([]list.Item, 0, len(rows))
	for _, eq := range rows {
		open := 0
		for _, wo := range m.db.WorkOrdersForEquipment(eq.ID) {
			if wo.StatusID != model.WorkOrderStatusDone {
				open++
			}
		}
		assigned := ""
		if eq.AssignedActorID != nil {
			assigned = actorLabel(m.db, *eq.AssignedActorID)
		}
		items = append(items, equipmentRowItem{
			eq:             eq,
			assignedLabel:  assigned,
			openWorkOrders: open,
			dragging:       eq.ID == m.drag.draggingID(),
		})
	}
	m.equipmentList.SetItems(items)
	if curID != "" {
		selectListItemByID(&m.equipmentList, curID)
	}
}

// visibleEquipment returns the equipment currently shown, in list order.
func (m *appModel) visibleEquipment() []model.Equipment {
	items := m.equipmentList.Items()
	rows := make([]model.Equipment, 0, len(items))
	for _, it := range items {
		if row, ok := it.(equipmentRowItem); ok {
			rows = append(rows, row.eq)
		}
	}
	return rows
}

func (m *appModel) refreshWorkOrders() {
	eqName := map[string]string{}
	eqLine := map[string]string{}
	for _, eq := range m.db.Equipment {
		eqName[eq.ID] = eq.Name
		eqLine[eq.ID] = eq.LineID
	}
	var items []list.Item
	for _, wo := range m.db.WorkOrders {
		if eqLine[wo.EquipmentID] != m.selectedLineID {
			continue
		}
		items = append(items, workOrderRowItem{wo: wo, equipmentName: eqName[wo.EquipmentID]})
	}
	m.workOrdersList.SetItems(items)
}

func (m *appModel) refreshInspections() {
	eqName := map[string]string{}
	eqLine := map[string]string{}
	for _, eq := range m.db.Equipment {
		eqName[eq.ID] = eq.Name
		eqLine[eq.ID] = eq.LineID
	}
	var items []list.Item
	for _, insp := range m.db.Inspections {
		if eqLine[insp.EquipmentID] != m.selectedLineID {
			continue
		}
		items = append(items, inspectionRowItem{insp: insp, equipmentName: eqName[insp.EquipmentID]})
	}
	m.inspectionsList.SetItems(items)
}

// moveSelectedEquipment nudges the selected unit one position up or down and
// persists the new rank.
func (m *appModel) moveSelectedEquipment(delta int) {
	rows := m.visibleEquipment()
	idx := m.equipmentList.Index()
	if idx < 0 || idx >= len(rows) {
		return
	}
	target := idx + delta
	if target < 0 || target >= len(rows) {
		return
	}
	movedID := rows[idx].ID

	final := append([]model.Equipment(nil), rows...)
	final[idx], final[target] = final[target], final[idx]

	if err := m.persistDrop(final, movedID); err != nil {
		return
	}
	_ = m.reloadFromDisk()
	selectListItemByID(&m.equipmentList, movedID)
}

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m *appModel) storeChanged() bool {
	return m.store.ModTime().After(m.lastModTime)
}

func (m *appModel) reloadFromDisk() error {
	db, err := m.store.Load()
	if err != nil {
		return err
	}
	m.db = db
	m.lastModTime = m.store.ModTime()

	// Refresh current view (and keep selection if possible).
	switch m.view {
	case viewFacilities:
		m.refreshFacilities()
	case viewLines:
		m.refreshLines(m.selectedFacilityID)
	case viewLine:
		m.refreshLineTab()
	}
	return nil
}

func selectListItemByID(l *list.Model, id string) {
	for i := 0; i < len(l.Items()); i++ {
		switch it := l.Items()[i].(type) {
		case facilityItem:
			if it.facility.ID == id {
				l.Select(i)
				return
			}
		case lineItem:
			if it.line.ID == id {
				l.Select(i)
				return
			}
		case equipmentRowItem:
			if it.eq.ID == id {
				l.Select(i)
				return
			}
		case workOrderRowItem:
			if it.wo.ID == id {
				l.Select(i)
				return
			}
		case inspectionRowItem:
			if it.insp.ID == id {
				l.Select(i)
				return
			}
		}
	}
}
