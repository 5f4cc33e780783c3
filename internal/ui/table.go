package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
// height 0 sizes the table to fit every row.
func NewTable(columns []TableColumn, rows []table.Row, height int) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}
	if height <= 0 {
		height = len(rows) + 1 // +1 for header
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Background(ColorMuted).
		Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string for CLI output.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows, 0)
	return t.View()
}

// KeyValue is one row of a label/value listing.
type KeyValue struct {
	Key   string
	Value string
}

// RenderKeyValues aligns labels in a column, one pair per line.
func RenderKeyValues(pairs []KeyValue) string {
	width := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p.Key); w > width {
			width = w
		}
	}
	label := lipgloss.NewStyle().Foreground(ColorSecondary).Width(width + 2)

	var out string
	for _, p := range pairs {
		out += label.Render(p.Key) + p.Value + "\n"
	}
	return out
}
