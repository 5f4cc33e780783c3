package ui

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestSemanticColorsAreUnique(t *testing.T) {
	colors := []lipgloss.Color{ColorSuccess, ColorError, ColorWarning, ColorInfo}

	seen := make(map[string]bool)
	for _, c := range colors {
		assert.NotEmpty(t, string(c))
		assert.False(t, seen[string(c)], "duplicate semantic color %s", c)
		seen[string(c)] = true
	}
}

func TestSymbolsAreUnique(t *testing.T) {
	symbols := []string{SymbolSuccess, SymbolFail, SymbolPending, SymbolAlert, SymbolOn, SymbolOff}

	seen := make(map[string]bool)
	for _, s := range symbols {
		assert.False(t, seen[s], "duplicate symbol %s", s)
		seen[s] = true
	}
}

func TestOnOff(t *testing.T) {
	assert.Equal(t, SymbolOn+" on", stripANSI(OnOff(true)))
	assert.Equal(t, SymbolOff+" off", stripANSI(OnOff(false)))
}

func TestFillColor(t *testing.T) {
	color := FillColor(80)
	tests := []struct {
		percent float64
		want    lipgloss.Color
	}{
		{0, ColorSuccess},
		{69.9, ColorSuccess},
		{70, ColorWarning},
		{79.9, ColorWarning},
		{80, ColorError},
		{100, ColorError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, color(tt.percent), "percent %.1f", tt.percent)
	}
}

func TestEfficiencyColor(t *testing.T) {
	assert.Equal(t, ColorError, EfficiencyColor(10))
	assert.Equal(t, ColorWarning, EfficiencyColor(40))
	assert.Equal(t, ColorSuccess, EfficiencyColor(70))
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-5))
	assert.Equal(t, 42.0, ClampPercent(42))
	assert.Equal(t, 100.0, ClampPercent(150))
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		width   int
		want    string
	}{
		{"empty", 0, 10, "[░░░░░░░░░░]   0%"},
		{"half", 50, 10, "[█████░░░░░]  50%"},
		{"full", 100, 4, "[████] 100%"},
		{"over 100 clamps", 140, 4, "[████] 100%"},
		{"zero width", 50, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderBar(tt.percent, tt.width, FillColor(80))))
		})
	}
}

func TestRenderBar_Colored(t *testing.T) {
	lipgloss.SetColorProfile(termenv.TrueColor)
	defer lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderBar(90, 10, FillColor(80))
	assert.Contains(t, out, "\x1b[")
	assert.NotEqual(t, out, stripANSI(out))
}

func TestRenderStackedBar(t *testing.T) {
	segments := []Segment{
		{Percent: 50, Color: ColorRecyclable},
		{Percent: 30, Color: ColorOrganic},
		{Percent: 20, Color: ColorNonRecyclable},
	}

	out := stripANSI(RenderStackedBar(segments, 20))
	assert.Equal(t, 20, len([]rune(out)))
	assert.Equal(t, strings.Repeat(string(BarFilled), 20), out)

	assert.Equal(t, strings.Repeat(string(BarEmpty), 5), stripANSI(RenderStackedBar([]Segment{{Percent: 0}}, 5)))
	assert.Empty(t, RenderStackedBar(nil, 10))
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		width int
		want  string
	}{
		{"nil data", nil, 10, ""},
		{"zero width", []float64{1, 2}, 0, ""},
		{"flat line uses middle level", []float64{50, 50, 50}, 10, "▅▅▅"},
		{"increasing", []float64{0, 50, 100}, 10, "▁▄█"},
		{"keeps most recent points", []float64{100, 0, 100}, 2, "▁█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderSparkline(tt.data, tt.width, EfficiencyColor)))
		})
	}
}

func TestRenderSparkline_NilColor(t *testing.T) {
	assert.Equal(t, "▁█", RenderSparkline([]float64{1, 2}, 5, nil))
}

func TestRenderSimpleTable(t *testing.T) {
	assert.Empty(t, RenderSimpleTable([]TableColumn{{Title: "ID", Width: 4}}, nil))

	out := stripANSI(RenderSimpleTable(
		[]TableColumn{{Title: "ID", Width: 4}, {Title: "Message", Width: 20}},
		[][]string{{"1", "Bin 90% full"}},
	))
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Bin 90% full")
}

func TestRenderKeyValues(t *testing.T) {
	out := stripANSI(RenderKeyValues([]KeyValue{
		{Key: "Fill", Value: "75%"},
		{Key: "Temperature", Value: "72°F"},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, strings.Index(lines[0], "75%"), strings.Index(lines[1], "72°F"))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "72%", FormatPercent(72))
	assert.Equal(t, "72.5%", FormatPercent(72.5))
	assert.Equal(t, "0%", FormatPercent(0))
	assert.Equal(t, "81.5°F", FormatTemperature(81.5))
	assert.Equal(t, "90.0°F", FormatTemperature(90))
	assert.Equal(t, "36.0h", FormatHours(36))
}
