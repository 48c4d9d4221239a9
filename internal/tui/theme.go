package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if hasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

// hasDarkBackground honors PLANTDECK_TUI_THEME before falling back to
// Lip Gloss's detection, so the palette can be forced on terminals where
// background queries misreport (or block).
func hasDarkBackground() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PLANTDECK_TUI_THEME"))) {
	case "light":
		return false
	case "dark":
		return true
	}
	return lipgloss.HasDarkBackground()
}

// Common semantic colors used across the TUI.
var (
	colorMuted         lipgloss.TerminalColor = ac("240", "243")
	colorChromeMutedFg lipgloss.TerminalColor = ac("240", "245")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorAccent    lipgloss.TerminalColor = ac("27", "62") // blue

	// Status colors mirror the dashboard palette: red for down, amber for
	// maintenance, gray for retired.
	colorStatusDown        lipgloss.TerminalColor = lipgloss.Color("#d16d7a")
	colorStatusMaintenance lipgloss.TerminalColor = lipgloss.Color("#f39c12")
	colorStatusOperational lipgloss.TerminalColor = lipgloss.Color("#5f9fb0")
	colorStatusRetired     lipgloss.TerminalColor = lipgloss.Color("#6c757d")

	// Row being dragged.
	colorDragBg lipgloss.TerminalColor = ac("189", "60")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	footerStyle = lipgloss.NewStyle().Faint(true)

	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorChromeMutedFg)
)

func init() {
	// Respect NO_COLOR and unknown terminals the way termenv reports them;
	// lipgloss picks this up automatically, but force ASCII when the profile
	// says so in case the renderer was created before detection.
	if termenv.EnvColorProfile() == termenv.Ascii {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
