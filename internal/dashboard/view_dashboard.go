package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wastewise/wastewise/internal/ui"
)

// recentAlerts is how many alerts the dashboard card lists.
const recentAlerts = 2

func (m *Model) handleDashboardKey(key string) (bool, tea.Cmd) {
	if key != KeyResetBin {
		return false, nil
	}
	if m.resetting {
		return true, m.setStatus("Reset already in progress", statusInfo)
	}
	m.confirmReset = true
	return true, nil
}

func (m Model) renderDashboard() string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		CardStyle.Render(m.renderFillCard()),
		CardStyle.Render(m.renderRecentAlertsCard()),
	)
	if m.confirmReset {
		return cards + "\n\n" + ConfirmStyle.Render("Reset the bin? Fill history is archived and alerts are cleared. [y/N]")
	}
	if m.resetting {
		return cards + "\n\n" + m.spinner.View() + " " + MutedStyle.Render("Resetting bin…")
	}
	return cards
}

func (m Model) renderFillCard() string {
	lines := []string{CardTitleStyle.Render("Current Fill Level")}
	switch {
	case m.stats != nil:
		fill := m.stats.FillLevel
		color := ui.FillColor(m.capacity)(fill)
		bar := m.progress
		bar.FullColor = string(color)
		lines = append(lines,
			lipgloss.NewStyle().Foreground(color).Bold(true).Render(ui.FormatPercent(fill)),
			bar.ViewAs(ui.ClampPercent(fill)/100),
			LabelStyle.Render(fmt.Sprintf("Alert threshold %d%%", m.capacity)),
		)
		if m.stats.Temperature != 0 {
			lines = append(lines, LabelStyle.Render("Temperature ")+ValueStyle.Render(ui.FormatTemperature(m.stats.Temperature)))
		}
		if m.statsErr != nil {
			lines = append(lines, renderError("Stale", m.statsErr))
		}
	case m.statsErr != nil:
		lines = append(lines, renderError("Current stats unavailable", m.statsErr))
	default:
		lines = append(lines, m.renderLoading("current stats"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRecentAlertsCard() string {
	lines := []string{CardTitleStyle.Render("Recent Alerts")}
	switch {
	case m.alertsErr != nil && !m.alertsOK:
		lines = append(lines, renderError("Alerts unavailable", m.alertsErr))
	case !m.alertsOK:
		lines = append(lines, m.renderLoading("alerts"))
	case len(m.alerts) == 0:
		lines = append(lines, MutedStyle.Render("No recent alerts"))
	default:
		n := len(m.alerts)
		if n > recentAlerts {
			n = recentAlerts
		}
		for _, a := range m.alerts[:n] {
			lines = append(lines, ValueStyle.Render(a.Message)+MutedStyle.Render(" - "+a.Timestamp))
		}
	}
	return strings.Join(lines, "\n")
}

