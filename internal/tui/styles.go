package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors - muted terminal palette, readable on dark backgrounds
var (
	colorBrand   = lipgloss.Color("#FF9D00") // Amber, the maple accent
	colorTeal    = lipgloss.Color("#00CCAA")
	colorSuccess = lipgloss.Color("#00FF66")
	colorWarning = lipgloss.Color("#FF6600")
	colorError   = lipgloss.Color("#FF3366")
	colorMuted   = lipgloss.Color("#5555AA")
	colorBorder  = lipgloss.Color("#2A2A55")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBrand).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorTeal).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	haltedStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	runningStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	eventTimeStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	eventTypeStyle = lipgloss.NewStyle().
			Foreground(colorTeal)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// renderSectionTitle renders a title with dashes filling the remaining width.
func renderSectionTitle(title string, width int) string {
	titleWithSpaces := " " + title + " "
	available := width - lipgloss.Width(titleWithSpaces) - 4
	if available < 2 {
		available = 2
	}
	left := available / 2
	right := available - left

	line := "──" + strings.Repeat("─", left) + titleWithSpaces + strings.Repeat("─", right) + "──"
	return panelTitleStyle.Width(width).Render(line)
}

// truncateToWidth truncates a string to fit within maxWidth display columns.
// Uses rune-aware iteration to avoid cutting multi-byte characters.
func truncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	currentWidth := 0
	for i, r := range s {
		charWidth := lipgloss.Width(string(r))
		if currentWidth+charWidth > maxWidth {
			return s[:i]
		}
		currentWidth += charWidth
	}
	return s
}
