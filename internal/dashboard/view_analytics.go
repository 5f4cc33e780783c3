package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/ui"
)

const (
	breakdownWidth = 40
	historyRows    = 8
	sparklineWidth = 30
)

func (m Model) renderAnalytics() string {
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		CardStyle.Render(m.renderEfficiencyCard()),
		CardStyle.Render(m.renderBreakdownCard()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, CardStyle.Render(m.renderHistoryCard()))
}

func (m Model) renderEfficiencyCard() string {
	lines := []string{CardTitleStyle.Render("Efficiency Score")}
	switch {
	case m.stats != nil:
		score := m.stats.Composition.EfficiencyScore()
		lines = append(lines,
			lipgloss.NewStyle().Foreground(ui.EfficiencyColor(float64(score))).Bold(true).Render(fmt.Sprintf("%d%%", score)),
			MutedStyle.Render("Overall waste management efficiency"),
		)
	case m.statsErr != nil:
		lines = append(lines, renderError("Current stats unavailable", m.statsErr))
	default:
		lines = append(lines, m.renderLoading("current stats"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderBreakdownCard() string {
	lines := []string{CardTitleStyle.Render("Current Breakdown")}
	if m.stats == nil {
		if m.statsErr != nil {
			lines = append(lines, renderError("Current stats unavailable", m.statsErr))
		} else {
			lines = append(lines, m.renderLoading("composition"))
		}
		return strings.Join(lines, "\n")
	}

	c := m.stats.Composition
	lines = append(lines,
		ui.RenderStackedBar(compositionSegments(c), breakdownWidth),
		legend(ui.ColorRecyclable, "Recyclable", c.Recyclable)+"  "+
			legend(ui.ColorOrganic, "Organic", c.Organic)+"  "+
			legend(ui.ColorNonRecyclable, "Non-recyclable", c.NonRecyclable),
	)
	return strings.Join(lines, "\n")
}

func compositionSegments(c api.Composition) []ui.Segment {
	return []ui.Segment{
		{Percent: c.Recyclable, Color: ui.ColorRecyclable},
		{Percent: c.Organic, Color: ui.ColorOrganic},
		{Percent: c.NonRecyclable, Color: ui.ColorNonRecyclable},
	}
}

func legend(color lipgloss.Color, label string, pct float64) string {
	return lipgloss.NewStyle().Foreground(color).Render("■") + " " + LabelStyle.Render(label) + " " + ValueStyle.Render(ui.FormatPercent(pct))
}

func (m Model) renderHistoryCard() string {
	lines := []string{CardTitleStyle.Render("History")}
	switch {
	case m.history != nil && len(m.history.History) == 0:
		lines = append(lines, MutedStyle.Render("No archived periods yet"))
	case m.history != nil:
		h := m.history
		// History arrives newest first; the sparkline reads left to right.
		eff := make([]float64, 0, len(h.History))
		for i := len(h.History) - 1; i >= 0; i-- {
			eff = append(eff, h.History[i].Efficiency)
		}
		lines = append(lines,
			LabelStyle.Render("Efficiency trend ")+ui.RenderSparkline(eff, sparklineWidth, ui.EfficiencyColor),
			LabelStyle.Render("Averages ")+ValueStyle.Render(fmt.Sprintf(
				"efficiency %s · max temp %s · fill time %s",
				ui.FormatPercent(h.Averages.Efficiency),
				ui.FormatTemperature(h.Averages.MaxTemperature),
				ui.FormatHours(h.Averages.FillDuration),
			)),
			"",
			historyTable(h.History).View(),
		)
	case m.historyErr != nil:
		lines = append(lines, renderError("History unavailable", m.historyErr))
	default:
		lines = append(lines, m.renderLoading("history"))
	}
	return strings.Join(lines, "\n")
}

func historyTable(records []api.HistoryRecord) table.Model {
	if len(records) > historyRows {
		records = records[:historyRows]
	}
	rows := make([]table.Row, 0, len(records))
	for _, r := range HistoryRows(records) {
		rows = append(rows, table.Row(r))
	}
	return ui.NewTable(HistoryColumns, rows, 0)
}

// HistoryRows formats records as cells matching HistoryColumns.
func HistoryRows(records []api.HistoryRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Timestamp,
			ui.FormatPercent(r.Recyclable),
			ui.FormatPercent(r.Organic),
			ui.FormatPercent(r.NonRecyclable),
			ui.FormatPercent(r.Efficiency),
			ui.FormatTemperature(r.MaxTemperature),
			ui.FormatHours(r.FillDuration),
		})
	}
	return rows
}

// HistoryColumns are shared by the analytics table and `stats --history`.
var HistoryColumns = []ui.TableColumn{
	{Title: "Archived", Width: 20},
	{Title: "Recycl.", Width: 8},
	{Title: "Organic", Width: 8},
	{Title: "Other", Width: 8},
	{Title: "Effic.", Width: 7},
	{Title: "Max temp", Width: 9},
	{Title: "Filled in", Width: 9},
}
