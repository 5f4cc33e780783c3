// Package ui provides terminal rendering helpers shared by the wastewise
// dashboard and its one-shot commands.
//
// # Components Overview
//
//	Bars          - Fill level and composition bars with color thresholds
//	Sparkline     - Mini line graphs for efficiency history
//	Tables        - Bubbles tables styled for the dashboard and CLI
//	Key/values    - Aligned label listings for stats and settings
//
// # Color Scheme
//
//	ColorSuccess   (green)  - Healthy readings, enabled channels
//	ColorError     (red)    - Over threshold, failed requests
//	ColorWarning   (amber)  - Approaching a threshold
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timestamps
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
//
// # Bars
//
// Fill bars are colored against the capacity threshold:
//
//	ui.RenderBar(67.5, 20, ui.FillColor(80))  // [█████████████░░░░░░░]  68%
package ui
