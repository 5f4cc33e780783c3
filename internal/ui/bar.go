package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar block characters.
const (
	BarFilled = '█'
	BarEmpty  = '░'
)

// ColorFunc picks a color for a percentage.
type ColorFunc func(percent float64) lipgloss.Color

// FillColor colors a fill level against the capacity threshold: red at or
// above it, amber within 10 points below it, green otherwise.
func FillColor(capacity int) ColorFunc {
	return func(percent float64) lipgloss.Color {
		switch {
		case percent >= float64(capacity):
			return ColorError
		case percent >= float64(capacity-10):
			return ColorWarning
		default:
			return ColorSuccess
		}
	}
}

// EfficiencyColor treats higher percentages as better.
func EfficiencyColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 70:
		return ColorSuccess
	case percent >= 40:
		return ColorWarning
	default:
		return ColorError
	}
}

// ClampPercent clamps a percentage to the 0-100 range.
func ClampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// CalculateBarCounts returns the number of filled and empty characters for a bar.
func CalculateBarCounts(percent float64, width int) (filled, empty int) {
	filled = int((ClampPercent(percent) / 100.0) * float64(width))
	empty = width - filled
	return
}

// RenderBar renders a bracketed bar followed by the percentage, e.g.
// [████████░░░░]  67%.
func RenderBar(percent float64, width int, colorFn ColorFunc) string {
	if width <= 0 {
		return ""
	}
	percent = ClampPercent(percent)
	filled, empty := CalculateBarCounts(percent, width)
	bar := "[" + strings.Repeat(string(BarFilled), filled) + strings.Repeat(string(BarEmpty), empty) + "]"
	if colorFn != nil {
		bar = lipgloss.NewStyle().Foreground(colorFn(percent)).Render(bar)
	}
	return bar + fmt.Sprintf(" %3.0f%%", percent)
}

// Segment is one colored part of a stacked bar.
type Segment struct {
	Percent float64
	Color   lipgloss.Color
}

// RenderStackedBar draws segments side by side in width cells. Rounding
// leftovers go to the last segment so the bar always spans width.
func RenderStackedBar(segments []Segment, width int) string {
	if width <= 0 || len(segments) == 0 {
		return ""
	}
	var total float64
	for _, s := range segments {
		total += s.Percent
	}
	if total <= 0 {
		return MutedStyle.Render(strings.Repeat(string(BarEmpty), width))
	}

	var sb strings.Builder
	used := 0
	for i, s := range segments {
		n := int(s.Percent / total * float64(width))
		if i == len(segments)-1 {
			n = width - used
		}
		if n <= 0 {
			continue
		}
		used += n
		sb.WriteString(lipgloss.NewStyle().Foreground(s.Color).Render(strings.Repeat(string(BarFilled), n)))
	}
	return sb.String()
}
