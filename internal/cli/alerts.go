package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/errors"
	"github.com/wastewise/wastewise/internal/notify"
	"github.com/wastewise/wastewise/internal/poll"
	"github.com/wastewise/wastewise/internal/ui"
	"github.com/wastewise/wastewise/internal/util"
)

var alertColumns = []ui.TableColumn{
	{Title: "ID", Width: 6},
	{Title: "Raised", Width: 20},
	{Title: "Location", Width: 16},
	{Title: "Message", Width: 40},
}

func alertsListCommand(ctx context.Context, w io.Writer, client *api.Client) error {
	alerts, err := client.GetAlerts(ctx)
	if err != nil {
		return err
	}
	if alerts == nil {
		alerts = []api.Alert{}
	}
	return emit(w, alerts, func() error {
		if len(alerts) == 0 {
			fmt.Fprintln(w, ui.SuccessStyle.Render(ui.SymbolSuccess+" No active alerts"))
			return nil
		}
		fmt.Fprintln(w, ui.WarningStyle.Render(fmt.Sprintf("%s %d active %s", ui.SymbolAlert, len(alerts), util.Pluralize(len(alerts), "alert", "alerts"))))
		rows := make([][]string, 0, len(alerts))
		for _, a := range alerts {
			rows = append(rows, []string{a.ID.String(), a.Timestamp, a.Location, a.Message})
		}
		fmt.Fprintln(w, ui.RenderSimpleTable(alertColumns, rows))
		return nil
	})
}

func alertsDismissCommand(ctx context.Context, w io.Writer, client *api.Client, id api.AlertID) error {
	ack, err := client.DismissAlert(ctx, id)
	if err != nil {
		return err
	}
	return emit(w, map[string]interface{}{"id": id, "message": ack.Message}, func() error {
		fmt.Fprintln(w, ui.SuccessStyle.Render(ui.SymbolSuccess+" Dismissed alert #"+id.String()))
		return nil
	})
}

// watchOptions configures alertsWatchCommand.
type watchOptions struct {
	Interval time.Duration
	Renotify bool
}

// alertsWatchCommand polls for alerts and prints one line per new alert
// until ctx is cancelled. Alerts present at the first poll are the baseline.
func alertsWatchCommand(ctx context.Context, w, errW io.Writer, client *api.Client, opts watchOptions) error {
	notifier := notify.New(notify.WithRenotify(opts.Renotify))
	var mu sync.Mutex

	if !machineMode {
		fmt.Fprintln(errW, ui.MutedStyle.Render(fmt.Sprintf("Watching for new alerts every %s (Ctrl+C to stop)", opts.Interval)))
	}

	h := poll.Start(func(ctx context.Context) error {
		alerts, err := client.GetAlerts(ctx)
		if err != nil {
			return err
		}
		fresh := notifier.Observe(alerts)

		mu.Lock()
		defer mu.Unlock()
		for _, n := range fresh {
			if machineMode {
				_ = writeJSONLine(w, n)
				continue
			}
			fmt.Fprintln(w, formatNotification(n))
		}
		return nil
	}, opts.Interval,
		poll.WithName("alerts"),
		poll.WithContext(ctx),
		poll.WithErrorSink(func(name string, err error) {
			if ctx.Err() != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(errW, ui.WarningStyle.Render(ui.SymbolFail+" "+name+": "+errors.Summary(err)))
		}),
	)

	<-ctx.Done()
	h.Stop()
	h.Wait()

	if !machineMode {
		runs, known := int(h.Runs()), notifier.Known()
		fmt.Fprintln(errW, ui.MutedStyle.Render(fmt.Sprintf("Stopped %s watch after %d %s, %d %s seen",
			h.Name(), runs, util.Pluralize(runs, "poll", "polls"), known, util.Pluralize(known, "alert", "alerts"))))
	}
	return nil
}

func formatNotification(n notify.Notification) string {
	line := ui.WarningStyle.Render(ui.SymbolAlert+" #"+n.AlertID.String()) + " " + n.Message
	if n.Location != "" {
		line += ui.MutedStyle.Render(" @ " + n.Location)
	}
	if n.Timestamp != "" {
		line += ui.MutedStyle.Render(" (" + n.Timestamp + ")")
	}
	return line
}
