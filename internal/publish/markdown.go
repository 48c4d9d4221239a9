package publish

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"plantdeck/internal/model"
	"plantdeck/internal/store"
)

type RenderOptions struct {
	IncludeArchived bool
}

// RenderEquipmentMarkdown renders one unit as a standalone markdown dossier:
// metadata, notes, and its maintenance/quality history.
func RenderEquipmentMarkdown(db *store.DB, equipmentID string, opt RenderOptions) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	eq, ok := db.FindEquipment(strings.TrimSpace(equipmentID))
	if !ok {
		return "", fmt.Errorf("equipment not found: %s", equipmentID)
	}
	if eq.Archived && !opt.IncludeArchived {
		return "", fmt.Errorf("equipment archived (use --include-archived): %s", eq.ID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(eq.Name))
	writeLn("")

	facilityName := ""
	if f, ok := db.FindFacility(eq.FacilityID); ok {
		facilityName = strings.TrimSpace(f.Name)
	}
	lineName := ""
	if l, ok := db.FindLine(eq.LineID); ok {
		lineName = strings.TrimSpace(l.Name)
	}

	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + eq.ID)
	writeLn("- Facility: " + labelWithID(facilityName, eq.FacilityID))
	writeLn("- Line: " + labelWithID(lineName, eq.LineID))
	if s := strings.TrimSpace(eq.StatusID); s != "" {
		writeLn("- Status: " + s)
	}
	if eq.Critical {
		writeLn("- Critical: true")
	}
	if eq.Archived {
		writeLn("- Archived: true")
	}
	if s := strings.TrimSpace(eq.Kind); s != "" {
		writeLn("- Kind: " + s)
	}
	if s := strings.TrimSpace(eq.Serial); s != "" {
		writeLn("- Serial: " + s)
	}
	if s := strings.TrimSpace(eq.Location); s != "" {
		writeLn("- Location: " + s)
	}
	if s := strings.TrimSpace(eq.OwnerActorID); s != "" {
		writeLn("- Owner: " + s)
	}
	if eq.AssignedActorID != nil && strings.TrimSpace(*eq.AssignedActorID) != "" {
		writeLn("- Assigned: " + strings.TrimSpace(*eq.AssignedActorID))
	}
	if len(eq.Tags) > 0 {
		tags := make([]string, 0, len(eq.Tags))
		for _, t := range eq.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		sort.Strings(tags)
		if len(tags) > 0 {
			writeLn("- Tags: " + strings.Join(tags, ", "))
		}
	}
	writeLn("- Created: " + eq.CreatedAt.UTC().Format(time.RFC3339))
	writeLn("- Updated: " + eq.UpdatedAt.UTC().Format(time.RFC3339))

	if notes := strings.TrimSpace(eq.Notes); notes != "" {
		writeLn("")
		writeLn("## Notes")
		writeLn("")
		writeLn(notes)
	}

	if wos := db.WorkOrdersForEquipment(eq.ID); len(wos) > 0 {
		writeLn("")
		writeLn("## Work orders")
		writeLn("")
		for _, wo := range wos {
			line := fmt.Sprintf("- [%s] %s (%s)", wo.StatusID, strings.TrimSpace(wo.Title), wo.ID)
			if d := strings.TrimSpace(wo.DueDate); d != "" {
				line += " due " + d
			}
			writeLn(line)
		}
	}

	if insps := db.InspectionsForEquipment(eq.ID); len(insps) > 0 {
		writeLn("")
		writeLn("## Inspections")
		writeLn("")
		for _, insp := range insps {
			line := fmt.Sprintf("- [%s] %s (%s)", insp.Result, strings.TrimSpace(insp.Checkpoint), insp.CreatedAt.UTC().Format("2006-01-02"))
			if m := strings.TrimSpace(insp.Measured); m != "" {
				line += " measured " + m
			}
			writeLn(line)
		}
	}

	return buf.String(), nil
}

// RenderLineIndexMarkdown renders the line overview page: equipment in rank
// order with status, linking to the per-unit dossiers.
func RenderLineIndexMarkdown(db *store.DB, lineID string, rows []model.Equipment, opt RenderOptions) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	l, ok := db.FindLine(strings.TrimSpace(lineID))
	if !ok {
		return "", fmt.Errorf("line not found: %s", lineID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(l.Name))
	writeLn("")
	facilityName := ""
	if f, ok := db.FindFacility(l.FacilityID); ok {
		facilityName = strings.TrimSpace(f.Name)
	}
	writeLn("- ID: " + l.ID)
	writeLn("- Facility: " + labelWithID(facilityName, l.FacilityID))
	writeLn("")
	writeLn("## Equipment")
	writeLn("")
	for _, eq := range rows {
		if eq.Archived && !opt.IncludeArchived {
			continue
		}
		line := fmt.Sprintf("- [%s](equipment/%s.md)", strings.TrimSpace(eq.Name), eq.ID)
		if s := strings.TrimSpace(eq.StatusID); s != "" {
			line += " — " + s
		}
		if eq.Critical {
			line += " (critical)"
		}
		writeLn(line)
	}

	return buf.String(), nil
}

func labelWithID(name, id string) string {
	if name == "" {
		return id
	}
	return name + " (" + id + ")"
}
