// Package dashboard implements the interactive smart-bin dashboard.
//
// The dashboard is a Bubble Tea program with four views: Dashboard (fill
// level, temperature, recent alerts and reset), Analytics (efficiency score,
// waste breakdown and history), Alerts (active alerts with dismiss), and
// Settings (notification channels and alert thresholds).
//
// # Data flow
//
// Each view, when mounted, starts poll handles that fetch from the backend
// on a fixed interval. Results are delivered to the program through a
// Bridge as tea.Msgs and applied in Update, so all model state is touched
// from one goroutine. Every message carries the session number of the
// mount that produced it. Switching views stops the old handles and bumps
// the session, so late results for an unmounted view are dropped.
//
// # Keyboard
//
//	1-4, tab     Switch views
//	r            Refresh the current view (throttled)
//	R            Reset the bin (Dashboard, asks first)
//	j/k, d       Select and dismiss alerts (Alerts)
//	space/e/p/s  Toggle notification channels (Settings)
//	←/→          Adjust the selected threshold (Settings)
//	w, x         Save or discard settings edits (Settings)
//	?            Toggle help
//	q, Ctrl+C    Quit
package dashboard
