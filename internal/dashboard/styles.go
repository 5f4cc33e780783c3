package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/wastewise/wastewise/internal/ui"
)

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorWarning).
			Foreground(ColorTextPrimary).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSuccess)

	StatusErrStyle = lipgloss.NewStyle().
			Foreground(ui.ColorError)

	StatusInfoStyle = lipgloss.NewStyle().
			Foreground(ui.ColorInfo)

	ConfirmStyle = lipgloss.NewStyle().
			Foreground(ui.ColorWarning).
			Bold(true)
)

// statusStyle picks the style for a transient status message.
func statusStyle(k statusKind) lipgloss.Style {
	switch k {
	case statusOK:
		return StatusOKStyle
	case statusError:
		return StatusErrStyle
	default:
		return StatusInfoStyle
	}
}
