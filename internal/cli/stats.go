package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/dashboard"
	"github.com/wastewise/wastewise/internal/ui"
)

const statsBarWidth = 30

// statsOutput is the --json shape of the stats command.
type statsOutput struct {
	Current    api.CurrentStats     `json:"current"`
	Efficiency int                  `json:"efficiency"`
	History    *api.HistoricalStats `json:"history,omitempty"`
}

// statsBackend is the part of the API client the stats command uses.
type statsBackend interface {
	GetCurrentStats(ctx context.Context) (api.CurrentStats, error)
	GetHistoricalStats(ctx context.Context) (api.HistoricalStats, error)
	GetSettings(ctx context.Context) (api.Settings, error)
}

func statsCommand(ctx context.Context, w io.Writer, client statsBackend, withHistory bool) error {
	current, err := client.GetCurrentStats(ctx)
	if err != nil {
		return err
	}
	out := statsOutput{Current: current, Efficiency: current.Composition.EfficiencyScore()}

	if withHistory {
		history, err := client.GetHistoricalStats(ctx)
		if err != nil {
			return err
		}
		out.History = &history
	}

	return emit(w, out, func() error {
		capacity := dashboard.DefaultCapacity
		// The threshold only colors the bar, so a failed lookup keeps the default.
		if s, err := client.GetSettings(ctx); err == nil {
			capacity = s.Thresholds.Capacity
		}
		fmt.Fprint(w, renderStats(out, capacity))
		return nil
	})
}

func renderStats(out statsOutput, capacity int) string {
	c := out.Current.Composition
	s := ui.BoldStyle.Render("Current bin") + "\n\n"
	s += ui.RenderKeyValues([]ui.KeyValue{
		{Key: "Fill level", Value: ui.RenderBar(out.Current.FillLevel, statsBarWidth, ui.FillColor(capacity))},
		{Key: "Temperature", Value: ui.FormatTemperature(out.Current.Temperature)},
		{Key: "Recyclable", Value: ui.FormatPercent(c.Recyclable)},
		{Key: "Organic", Value: ui.FormatPercent(c.Organic)},
		{Key: "Non-recyclable", Value: ui.FormatPercent(c.NonRecyclable)},
		{Key: "Efficiency", Value: ui.FormatPercent(float64(out.Efficiency))},
	})

	if out.History == nil {
		return s
	}
	h := out.History
	s += "\n" + ui.BoldStyle.Render("History") + "\n\n"
	if len(h.History) == 0 {
		return s + ui.MutedStyle.Render("No archived periods yet") + "\n"
	}
	s += ui.RenderKeyValues([]ui.KeyValue{
		{Key: "Avg efficiency", Value: ui.FormatPercent(h.Averages.Efficiency)},
		{Key: "Avg max temp", Value: ui.FormatTemperature(h.Averages.MaxTemperature)},
		{Key: "Avg fill time", Value: ui.FormatHours(h.Averages.FillDuration)},
	})
	s += "\n" + ui.RenderSimpleTable(dashboard.HistoryColumns, dashboard.HistoryRows(h.History)) + "\n"
	return s
}
