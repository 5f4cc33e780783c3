package dashboard

import (
	"github.com/wastewise/wastewise/internal/api"
)

// Result messages are tagged with the session of the view mount that
// requested them; Update drops any whose session is no longer current.

type statsMsg struct {
	session int
	stats   api.CurrentStats
	err     error
}

type alertsMsg struct {
	session int
	alerts  []api.Alert
	err     error
}

type historyMsg struct {
	session int
	history api.HistoricalStats
	err     error
}

// settingsMsg carries the outcome of a settings load, save, or reset.
type settingsMsg struct {
	session  int
	action   settingsAction
	settings api.Settings
	message  string
	err      error
}

type settingsAction int

const (
	settingsLoaded settingsAction = iota
	settingsSaved
	settingsReset
)

type dismissMsg struct {
	session int
	id      api.AlertID
	err     error
}

type resetBinMsg struct {
	session int
	message string
	err     error
}

// mountMsg asks Update to mount a view once the program is running.
type mountMsg struct {
	view ViewID
}

type clearStatusMsg struct {
	seq int
}

type clearToastMsg struct {
	seq int
}

type clearNewBadgeMsg struct {
	id  api.AlertID
	seq int
}

type clearAlertStatusMsg struct {
	id  api.AlertID
	seq int
}
