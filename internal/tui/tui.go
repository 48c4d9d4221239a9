package tui

import (
	"plantdeck/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// Run starts the interactive terminal UI against an already-loaded workspace.
func Run(dir string, db *store.DB) error {
	return RunWithWorkspace(dir, db, "")
}

// RunWithWorkspace is like Run but records the workspace name for display in
// the header. Mouse cell motion is enabled so equipment rows can be dragged.
func RunWithWorkspace(dir string, db *store.DB, workspace string) error {
	zone.NewGlobal()
	m := newAppModel(dir, db, workspace)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
