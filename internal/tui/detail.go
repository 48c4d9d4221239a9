package tui

import (
	"fmt"
	"strings"

	"plantdeck/internal/model"
	"plantdeck/internal/store"

	"github.com/charmbracelet/lipgloss"
)

// renderEquipmentDetail renders the right-hand pane of the line view: the
// selected unit's fields, its maintenance and quality summary, and its notes
// rendered as markdown.
func renderEquipmentDetail(db *store.DB, eq model.Equipment, width, height int) string {
	labelStyle := lipgloss.NewStyle().Foreground(colorChromeMutedFg)
	valueStyle := lipgloss.NewStyle().Foreground(colorSurfaceFg)

	field := func(label, value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		return labelStyle.Render(label+": ") + valueStyle.Render(value)
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(eq.Name))
	lines = append(lines, labelStyle.Render(eq.ID))
	lines = append(lines, "")
	lines = append(lines, labelStyle.Render("status: ")+renderEquipmentStatus(eq.StatusID))
	for _, l := range []string{
		field("kind", eq.Kind),
		field("serial", eq.Serial),
		field("location", eq.Location),
	} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if eq.Critical {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorStatusDown).Bold(true).Render("critical"))
	}
	if eq.AssignedActorID != nil {
		lines = append(lines, field("assigned", actorLabel(db, *eq.AssignedActorID)))
	}
	lines = append(lines, field("owner", actorLabel(db, eq.OwnerActorID)))
	if len(eq.Tags) > 0 {
		lines = append(lines, field("tags", strings.Join(eq.Tags, ", ")))
	}

	wos := db.WorkOrdersForEquipment(eq.ID)
	open := 0
	for _, wo := range wos {
		if wo.StatusID != model.WorkOrderStatusDone {
			open++
		}
	}
	insps := db.InspectionsForEquipment(eq.ID)
	fails := 0
	for _, insp := range insps {
		if insp.Result == model.InspectionResultFail {
			fails++
		}
	}
	lines = append(lines, "")
	lines = append(lines, labelStyle.Render(fmt.Sprintf("work orders: %d (%d open)", len(wos), open)))
	lines = append(lines, labelStyle.Render(fmt.Sprintf("inspections: %d (%d failed)", len(insps), fails)))

	if strings.TrimSpace(eq.Notes) != "" {
		lines = append(lines, "")
		lines = append(lines, renderMarkdown(eq.Notes, width-2))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

func actorLabel(db *store.DB, actorID string) string {
	if a, ok := db.FindActor(actorID); ok && strings.TrimSpace(a.Name) != "" {
		return a.Name
	}
	return actorID
}
