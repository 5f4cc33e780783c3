package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRefresh     = "r"
	KeyNextView    = "tab"
	KeyPrevView    = "shift+tab"
	KeyToggleHelp  = "?"
	KeyClose       = "esc"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeyDismiss     = "d"
	KeyResetBin    = "R"
	KeyConfirmYes  = "y"
	KeyConfirmNo   = "n"
	KeyToggle      = " "
	KeyToggleEmail = "e"
	KeyTogglePush  = "p"
	KeyToggleSMS   = "s"
	KeyDecrease    = "left"
	KeyDecreaseH   = "h"
	KeyIncrease    = "right"
	KeyIncreaseL   = "l"
	KeySave        = "w"
	KeyDiscard     = "x"
)

// keyMap feeds the bubbles help footer.
type keyMap struct {
	Views   key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding

	// view-specific
	ResetBin key.Binding
	Navigate key.Binding
	Dismiss  key.Binding
	Toggle   key.Binding
	Adjust   key.Binding
	Save     key.Binding
	Discard  key.Binding

	view ViewID
}

func newKeyMap() keyMap {
	return keyMap{
		Views:    key.NewBinding(key.WithKeys("1", "2", "3", "4", KeyNextView), key.WithHelp("1-4/tab", "views")),
		Refresh:  key.NewBinding(key.WithKeys(KeyRefresh), key.WithHelp("r", "refresh")),
		Help:     key.NewBinding(key.WithKeys(KeyToggleHelp), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys(KeyQuit, KeyQuitAlt), key.WithHelp("q", "quit")),
		ResetBin: key.NewBinding(key.WithKeys(KeyResetBin), key.WithHelp("R", "reset bin")),
		Navigate: key.NewBinding(key.WithKeys(KeySelectPrev, KeySelectPrevK, KeySelectNext, KeySelectNextJ), key.WithHelp("j/k", "select")),
		Dismiss:  key.NewBinding(key.WithKeys(KeyDismiss), key.WithHelp("d", "dismiss")),
		Toggle:   key.NewBinding(key.WithKeys(KeyToggle, KeyToggleEmail, KeyTogglePush, KeyToggleSMS), key.WithHelp("space/e/p/s", "toggle")),
		Adjust:   key.NewBinding(key.WithKeys(KeyDecrease, KeyIncrease, KeyDecreaseH, KeyIncreaseL), key.WithHelp("←/→", "adjust")),
		Save:     key.NewBinding(key.WithKeys(KeySave), key.WithHelp("w", "save")),
		Discard:  key.NewBinding(key.WithKeys(KeyDiscard), key.WithHelp("x", "reset")),
	}
}

// ShortHelp implements help.KeyMap for the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	switch k.view {
	case ViewDashboard:
		return []key.Binding{k.Views, k.Refresh, k.ResetBin, k.Help, k.Quit}
	case ViewAlerts:
		return []key.Binding{k.Views, k.Navigate, k.Dismiss, k.Refresh, k.Help, k.Quit}
	case ViewSettings:
		return []key.Binding{k.Navigate, k.Toggle, k.Adjust, k.Save, k.Discard, k.Help, k.Quit}
	default:
		return []key.Binding{k.Views, k.Refresh, k.Help, k.Quit}
	}
}

// FullHelp implements help.KeyMap for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Views, k.Refresh, k.Help, k.Quit},
		{k.ResetBin, k.Navigate, k.Dismiss},
		{k.Toggle, k.Adjust, k.Save, k.Discard},
	}
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyQuitAlt {
		return true, m.quit()
	}

	// A pending reset confirmation swallows every other key.
	if m.confirmReset {
		m.confirmReset = false
		if key == KeyConfirmYes {
			m.resetting = true
			return true, resetBinCmd(m.backend, m.session)
		}
		return true, m.setStatus("Reset cancelled", statusInfo)
	}

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp {
		if key == KeyClose {
			m.showHelp = false
		}
		return true, nil
	}

	switch key {
	case KeyQuit:
		return true, m.quit()
	case "1", "2", "3", "4":
		return true, m.switchTo(ViewID(key[0] - '1'))
	case KeyNextView:
		return true, m.switchTo(m.view.Next())
	case KeyPrevView:
		return true, m.switchTo(m.view.Prev())
	case KeyRefresh:
		return true, m.refreshCmd()
	}

	switch m.view {
	case ViewDashboard:
		return m.handleDashboardKey(key)
	case ViewAlerts:
		return m.handleAlertsKey(key)
	case ViewSettings:
		return m.handleSettingsKey(key)
	}
	return false, nil
}

func (m *Model) switchTo(v ViewID) tea.Cmd {
	if v == m.view && m.mounted {
		return nil
	}
	return m.mount(v)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.unmount()
	return tea.Quit
}
