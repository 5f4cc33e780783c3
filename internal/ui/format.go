package ui

import "fmt"

// FormatPercent prints whole percentages without a decimal.
func FormatPercent(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d%%", int64(v))
	}
	return fmt.Sprintf("%.1f%%", v)
}

// FormatTemperature prints a Fahrenheit reading.
func FormatTemperature(f float64) string {
	return fmt.Sprintf("%.1f°F", f)
}

// FormatHours prints a fill duration.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}
