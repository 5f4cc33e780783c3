package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/settings"
	"github.com/wastewise/wastewise/internal/ui"
)

// Rows of the settings form, top to bottom.
const (
	rowEmail = iota
	rowPush
	rowSMS
	rowCapacity
	rowTemperature
	settingsRowCount
)

// Slider steps per key press.
const (
	capacityStep    = 1
	temperatureStep = 1.0
)

var rowChannel = map[int]settings.Channel{
	rowEmail: settings.Email,
	rowPush:  settings.Push,
	rowSMS:   settings.SMS,
}

func (m *Model) handleSettingsKey(key string) (bool, tea.Cmd) {
	switch key {
	case KeySelectPrev, KeySelectPrevK:
		if m.settingsRow > 0 {
			m.settingsRow--
		}
		return true, nil
	case KeySelectNext, KeySelectNextJ:
		if m.settingsRow < settingsRowCount-1 {
			m.settingsRow++
		}
		return true, nil
	}

	// Edits need the server copy to start from.
	if !m.editor.Loaded() {
		return false, nil
	}

	switch key {
	case KeyToggle:
		if c, ok := rowChannel[m.settingsRow]; ok {
			_ = m.editor.Toggle(c)
		}
		return true, nil
	case KeyToggleEmail:
		_ = m.editor.Toggle(settings.Email)
		return true, nil
	case KeyTogglePush:
		_ = m.editor.Toggle(settings.Push)
		return true, nil
	case KeyToggleSMS:
		_ = m.editor.Toggle(settings.SMS)
		return true, nil
	case KeyDecrease, KeyDecreaseH:
		m.stepThreshold(-1)
		return true, nil
	case KeyIncrease, KeyIncreaseL:
		m.stepThreshold(1)
		return true, nil
	case KeySave:
		if m.settingsBusy {
			return true, nil
		}
		m.settingsBusy = true
		return true, tea.Batch(
			m.setStatus("Saving…", statusInfo),
			settingsCmd(m.editor, m.session, settingsSaved),
		)
	case KeyDiscard:
		if m.settingsBusy {
			return true, nil
		}
		m.settingsBusy = true
		return true, settingsCmd(m.editor, m.session, settingsReset)
	}
	return false, nil
}

func (m *Model) stepThreshold(dir int) {
	switch m.settingsRow {
	case rowCapacity:
		m.editor.StepCapacity(dir * capacityStep)
	case rowTemperature:
		m.editor.StepTemperature(float64(dir) * temperatureStep)
	}
}

func (m *Model) applySettings(msg settingsMsg) tea.Cmd {
	m.settingsBusy = false
	if msg.err == nil {
		m.capacity = msg.settings.Thresholds.Capacity
		m.settingsErr = nil
	}

	switch msg.action {
	case settingsSaved:
		if msg.err != nil {
			m.log.Warn("save settings failed: %v", msg.err)
			return m.setStatus("Error saving settings", statusError)
		}
		return m.setStatus("Settings saved successfully", statusOK)
	case settingsReset:
		if msg.err != nil {
			return m.setStatus("Error reloading settings", statusError)
		}
		return m.setStatus("Settings reset to saved values", statusOK)
	default:
		if msg.err != nil {
			m.settingsErr = msg.err
		}
		return nil
	}
}

func (m Model) renderSettings() string {
	if !m.editor.Loaded() {
		if m.settingsErr != nil {
			return CardStyle.Render(renderError("Settings unavailable", m.settingsErr))
		}
		return CardStyle.Render(m.renderLoading("settings"))
	}

	d := m.editor.Draft()
	notif := []string{
		CardTitleStyle.Render("Notifications"),
		m.settingsLine(rowEmail, "Email notifications", ui.OnOff(d.Notifications.Email)),
		m.settingsLine(rowPush, "Push notifications", ui.OnOff(d.Notifications.Push)),
		m.settingsLine(rowSMS, "SMS notifications", ui.OnOff(d.Notifications.SMS)),
	}
	thresholds := []string{
		CardTitleStyle.Render("Alert Thresholds"),
		m.settingsLine(rowCapacity, "Fill level (%)",
			slider(float64(d.Thresholds.Capacity), api.CapacityMin, api.CapacityMax)+" "+ValueStyle.Render(fmt.Sprintf("%d%%", d.Thresholds.Capacity))),
		m.settingsLine(rowTemperature, "Temperature (°F)",
			slider(d.Thresholds.Temperature, api.TemperatureMin, api.TemperatureMax)+" "+ValueStyle.Render(ui.FormatTemperature(d.Thresholds.Temperature))),
	}

	out := CardStyle.Render(strings.Join(notif, "\n")) + "\n" + CardStyle.Render(strings.Join(thresholds, "\n"))
	if m.editor.Dirty() {
		out += "\n" + StatusInfoStyle.Render("Unsaved changes: w to save, x to discard")
	}
	return out
}

func (m Model) settingsLine(row int, label, value string) string {
	cursor := "  "
	style := LabelStyle
	if row == m.settingsRow {
		cursor = SelectedStyle.Render("› ")
		style = SelectedStyle
	}
	return cursor + style.Width(20).Render(label) + value
}

const sliderWidth = 20

// slider draws a range input with a knob at v.
func slider(v, lo, hi float64) string {
	pos := 0
	if hi > lo {
		pos = int((v - lo) / (hi - lo) * float64(sliderWidth-1))
	}
	pos = clampInt(pos, 0, sliderWidth-1)
	return MutedStyle.Render(strings.Repeat("─", pos)) + SelectedStyle.Render("●") + MutedStyle.Render(strings.Repeat("─", sliderWidth-1-pos))
}
