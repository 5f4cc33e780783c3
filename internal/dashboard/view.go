package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wastewise/wastewise/internal/errors"
	"github.com/wastewise/wastewise/internal/ui"
)

// renderFrame lays out header, tabs, the active view, toasts, and footer.
func (m Model) renderFrame() string {
	var body string
	switch m.view {
	case ViewDashboard:
		body = m.renderDashboard()
	case ViewAnalytics:
		body = m.renderAnalytics()
	case ViewAlerts:
		body = m.renderAlerts()
	case ViewSettings:
		body = m.renderSettings()
	}

	sections := []string{m.renderHeader(), m.renderTabs(), "", body}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, "", toasts)
	}
	sections = append(sections, "", m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := "WasteWise " + ui.SymbolSuccess + " Smart Bin"
	updated := "waiting for data"
	if !m.lastUpdate.IsZero() {
		updated = "updated " + formatAge(time.Since(m.lastUpdate))
	}
	return HeaderStyle.Render(title) + " " + MutedStyle.Render(updated)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, viewCount)
	for v := ViewDashboard; v < viewCount; v++ {
		label := fmt.Sprintf("%d %s", int(v)+1, v)
		if v == m.view {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		content := ValueStyle.Render(ui.SymbolAlert+" "+t.n.Message) + "\n" + LabelStyle.Render(t.n.Location)
		boxes = append(boxes, ToastStyle.Render(content))
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

func (m Model) renderFooter() string {
	var line string
	if m.status != nil {
		line = statusStyle(m.status.kind).Render(m.status.text)
	} else {
		line = m.help.View(m.keys)
	}
	return FooterStyle.Render(line)
}

// renderError is the inline placeholder for a resource that failed to load.
func renderError(what string, err error) string {
	return StatusErrStyle.Render(fmt.Sprintf("%s %s: %s", ui.SymbolFail, what, errors.Summary(err)))
}

// renderLoading is the placeholder for a resource that has not arrived yet.
func (m Model) renderLoading(what string) string {
	return m.spinner.View() + " " + MutedStyle.Render("Loading "+what+"…")
}

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m Model) renderHelpOverlay() string {
	lines := []string{
		CardTitleStyle.Render("Keyboard Shortcuts"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		LabelStyle.Render("Press ? or esc to close"),
	}
	box := CardStyle.BorderForeground(ColorAccent).Padding(1, 2).Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	default:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
}
