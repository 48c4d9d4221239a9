package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
)

// zonePrefix namespaces equipment-row hit zones so mouse events can be
// resolved back to an equipment id.
const zonePrefix = "plantdeck/eq/"

func equipmentZoneID(equipmentID string) string { return zonePrefix + equipmentID }

type compactRowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	dragging lipgloss.Style
}

func newCompactRowDelegate() compactRowDelegate {
	return compactRowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		dragging: lipgloss.NewStyle().
			Background(colorDragBg).
			Bold(true),
	}
}

func (d compactRowDelegate) Height() int  { return 1 }
func (d compactRowDelegate) Spacing() int { return 0 }
func (d compactRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}

	line := txt
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	if row, ok := item.(equipmentRowItem); ok {
		if row.dragging {
			style = d.dragging
		}
		// Mark the row so mouse press/motion can be mapped back to it.
		fmt.Fprint(w, zone.Mark(equipmentZoneID(row.eq.ID), style.Render(line)))
		return
	}

	fmt.Fprint(w, style.Render(line))
}
