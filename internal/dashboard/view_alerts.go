package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/ui"
)

// Per-alert dismiss status labels.
const (
	statusDismissing   = "dismissing…"
	statusDismissed    = "dismissed"
	statusDismissError = "error dismissing"
)

func (m *Model) handleAlertsKey(key string) (bool, tea.Cmd) {
	switch key {
	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
		}
		return true, nil
	case KeySelectNext, KeySelectNextJ:
		if m.selected < len(m.alerts)-1 {
			m.selected++
		}
		return true, nil
	case KeyDismiss:
		a, ok := m.SelectedAlert()
		if !ok {
			return true, nil
		}
		if st, busy := m.alertStatus[a.ID]; busy && st.text == statusDismissing {
			return true, nil
		}
		m.seq++
		m.alertStatus[a.ID] = transient{text: statusDismissing, kind: statusInfo, seq: m.seq}
		delete(m.newAlerts, a.ID)
		return true, dismissCmd(m.backend, m.session, a.ID)
	}
	return false, nil
}

// applyDismiss removes the alert locally only once the backend confirmed it.
func (m *Model) applyDismiss(msg dismissMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn("dismiss alert %s failed: %v", msg.id, msg.err)
		return m.setAlertStatus(msg.id, statusDismissError, statusError)
	}
	kept := make([]api.Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		if a.ID != msg.id {
			kept = append(kept, a)
		}
	}
	m.alerts = kept
	m.clampSelection()
	return m.setAlertStatus(msg.id, statusDismissed, statusOK)
}

func (m *Model) setAlertStatus(id api.AlertID, text string, kind statusKind) tea.Cmd {
	m.seq++
	seq := m.seq
	m.alertStatus[id] = transient{text: text, kind: kind, seq: seq}
	return tea.Tick(m.opts.StatusDuration, func(time.Time) tea.Msg {
		return clearAlertStatusMsg{id: id, seq: seq}
	})
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.alerts) {
		m.selected = len(m.alerts) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// SelectedAlert returns the highlighted alert in the alerts view.
func (m Model) SelectedAlert() (api.Alert, bool) {
	if m.selected < 0 || m.selected >= len(m.alerts) {
		return api.Alert{}, false
	}
	return m.alerts[m.selected], true
}

func (m Model) renderAlerts() string {
	lines := []string{CardTitleStyle.Render("System Alerts")}

	switch {
	case !m.alertsOK && m.alertsErr != nil:
		lines = append(lines, renderError("Alerts unavailable", m.alertsErr))
	case !m.alertsOK:
		lines = append(lines, m.renderLoading("alerts"))
	case len(m.alerts) == 0:
		lines = append(lines, MutedStyle.Render("No active alerts"))
	default:
		for i, a := range m.alerts {
			lines = append(lines, m.renderAlertRow(i, a))
		}
	}
	if m.alertsOK && m.alertsErr != nil {
		lines = append(lines, "", renderError("Last refresh failed", m.alertsErr))
	}

	// Statuses of alerts no longer listed, e.g. just dismissed.
	if gone := m.orphanStatuses(); len(gone) > 0 {
		lines = append(lines, "")
		lines = append(lines, gone...)
	}
	return CardStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderAlertRow(i int, a api.Alert) string {
	cursor := "  "
	msgStyle := ValueStyle
	if i == m.selected {
		cursor = SelectedStyle.Render("› ")
		msgStyle = SelectedStyle
	}

	head := cursor + StatusErrStyle.Render(ui.SymbolAlert) + " " + msgStyle.Render(a.Message)
	if _, ok := m.newAlerts[a.ID]; ok {
		head += " " + StatusInfoStyle.Render("NEW")
	}
	if st, ok := m.alertStatus[a.ID]; ok {
		head += "  " + statusStyle(st.kind).Render(st.text)
	}
	detail := "    " + LabelStyle.Render(a.Location) + MutedStyle.Render("  "+a.Timestamp)
	return head + "\n" + detail
}

func (m Model) orphanStatuses() []string {
	listed := make(map[api.AlertID]bool, len(m.alerts))
	for _, a := range m.alerts {
		listed[a.ID] = true
	}
	ids := make([]string, 0)
	for id := range m.alertStatus {
		if !listed[id] {
			ids = append(ids, string(id))
		}
	}
	sort.Strings(ids)

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		st := m.alertStatus[api.AlertID(id)]
		out = append(out, statusStyle(st.kind).Render(fmt.Sprintf("Alert #%s %s", id, st.text)))
	}
	return out
}
