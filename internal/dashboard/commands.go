package dashboard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/poll"
	"github.com/wastewise/wastewise/internal/settings"
)

// Pollers run on their own goroutines and hand results to the program via
// the bridge. They capture only the backend, bridge, and session, never
// the model itself.

func statsPoller(b Backend, bridge *Bridge, session int) poll.Func {
	return func(ctx context.Context) error {
		stats, err := b.GetCurrentStats(ctx)
		bridge.Send(statsMsg{session: session, stats: stats, err: err})
		return err
	}
}

func alertsPoller(b Backend, bridge *Bridge, session int) poll.Func {
	return func(ctx context.Context) error {
		alerts, err := b.GetAlerts(ctx)
		bridge.Send(alertsMsg{session: session, alerts: alerts, err: err})
		return err
	}
}

// One-shot fetches run as tea.Cmds and return their result directly.

func statsCmd(b Backend, session int) tea.Cmd {
	return func() tea.Msg {
		stats, err := b.GetCurrentStats(context.Background())
		return statsMsg{session: session, stats: stats, err: err}
	}
}

func alertsCmd(b Backend, session int) tea.Cmd {
	return func() tea.Msg {
		alerts, err := b.GetAlerts(context.Background())
		return alertsMsg{session: session, alerts: alerts, err: err}
	}
}

func historyCmd(b Backend, session int) tea.Cmd {
	return func() tea.Msg {
		h, err := b.GetHistoricalStats(context.Background())
		return historyMsg{session: session, history: h, err: err}
	}
}

func dismissCmd(b Backend, session int, id api.AlertID) tea.Cmd {
	return func() tea.Msg {
		_, err := b.DismissAlert(context.Background(), id)
		return dismissMsg{session: session, id: id, err: err}
	}
}

func resetBinCmd(b Backend, session int) tea.Cmd {
	return func() tea.Msg {
		ack, err := b.ResetBin(context.Background())
		return resetBinMsg{session: session, message: ack.Message, err: err}
	}
}

// settingsCmd runs one editor action that talks to the backend.
func settingsCmd(e *settings.Editor, session int, action settingsAction) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := settingsMsg{session: session, action: action}
		switch action {
		case settingsSaved:
			res, err := e.Save(ctx)
			msg.message, msg.err = res.Message, err
		case settingsReset:
			_, msg.err = e.Reset(ctx)
		default:
			_, msg.err = e.Load(ctx)
		}
		msg.settings = e.Draft()
		return msg
	}
}
