package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "#39FF14" // Neon green
	ColorError   lipgloss.Color = "#FF0055" // Hot red-pink
	ColorWarning lipgloss.Color = "#FFAA00" // Electric amber
	ColorInfo    lipgloss.Color = "#00FFFF" // Neon cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "#FFFFFF" // Pure white
	ColorSecondary lipgloss.Color = "#B4B4D0" // Lavender gray
	ColorMuted     lipgloss.Color = "#6B6B8D" // Purple-gray
)

// Waste category colors, shared by the analytics view and CLI output.
const (
	ColorRecyclable    lipgloss.Color = "#3B82F6"
	ColorOrganic       lipgloss.Color = "#22C55E"
	ColorNonRecyclable lipgloss.Color = "#EF4444"
)

// DisableColors switches lipgloss to monochrome output (for --no-color).
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Styled helpers for one-off CLI output.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	BoldStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
)
