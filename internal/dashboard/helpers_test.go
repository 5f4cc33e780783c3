package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise/internal/api"
)

// fakeBackend is an in-memory stand-in for the bin API.
type fakeBackend struct {
	mu sync.Mutex

	stats    api.CurrentStats
	history  api.HistoricalStats
	alerts   []api.Alert
	settings api.Settings

	statsErr   error
	alertsErr  error
	dismissErr error
	saveErr    error
	resetErr   error

	statsCalls  int
	alertsCalls int
	dismissed   []api.AlertID
	saved       []api.Settings
	resets      int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		stats: api.CurrentStats{
			FillLevel:   75,
			Temperature: 72.5,
			Composition: api.Composition{Recyclable: 60, Organic: 30, NonRecyclable: 10},
		},
		history: api.HistoricalStats{
			History: []api.HistoryRecord{
				{Timestamp: "2024-03-02 10:00:00", Recyclable: 50, Organic: 30, NonRecyclable: 20, Efficiency: 80, MaxTemperature: 90, FillDuration: 20},
				{Timestamp: "2024-03-01 10:00:00", Recyclable: 40, Organic: 30, NonRecyclable: 30, Efficiency: 70, MaxTemperature: 85, FillDuration: 24},
			},
			Averages: api.Averages{Efficiency: 75, MaxTemperature: 87.5, FillDuration: 22},
		},
		alerts: []api.Alert{
			{ID: "1", Message: "Bin is 90% full", Location: "Main St", Timestamp: "2024-03-01 09:00:00"},
			{ID: "2", Message: "High temperature", Location: "Main St", Timestamp: "2024-03-01 09:05:00"},
		},
		settings: api.Settings{
			Notifications: api.Notifications{Email: true, Push: true},
			Thresholds:    api.Thresholds{Capacity: 80, Temperature: 85},
		},
	}
}

func (f *fakeBackend) GetCurrentStats(ctx context.Context) (api.CurrentStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	return f.stats, f.statsErr
}

func (f *fakeBackend) GetHistoricalStats(ctx context.Context) (api.HistoricalStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history, nil
}

func (f *fakeBackend) GetAlerts(ctx context.Context) ([]api.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alertsCalls++
	if f.alertsErr != nil {
		return nil, f.alertsErr
	}
	out := make([]api.Alert, len(f.alerts))
	copy(out, f.alerts)
	return out, nil
}

func (f *fakeBackend) DismissAlert(ctx context.Context, id api.AlertID) (api.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dismissErr != nil {
		return api.Ack{}, f.dismissErr
	}
	f.dismissed = append(f.dismissed, id)
	return api.Ack{Message: "Alert dismissed"}, nil
}

func (f *fakeBackend) GetSettings(ctx context.Context) (api.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings, nil
}

func (f *fakeBackend) SaveSettings(ctx context.Context, s api.Settings) (api.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return api.SaveResult{}, f.saveErr
	}
	f.saved = append(f.saved, s)
	f.settings = s
	return api.SaveResult{Message: "Settings updated successfully"}, nil
}

func (f *fakeBackend) ResetBin(ctx context.Context) (api.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return api.Ack{}, f.resetErr
	}
	f.resets++
	f.stats.FillLevel = 0
	return api.Ack{Message: "Bin reset successfully"}, nil
}

// recorder captures messages sent through the bridge.
type recorder struct {
	ch chan tea.Msg
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan tea.Msg, 64)}
}

func (r *recorder) Send(msg tea.Msg) {
	r.ch <- msg
}

func (r *recorder) next(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case msg := <-r.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a bridged message")
		return nil
	}
}

func testOptions() Options {
	return Options{
		Interval:       time.Hour,
		StatusDuration: time.Millisecond,
		ToastDuration:  time.Millisecond,
		RefreshRate:    1000,
		RefreshBurst:   100,
	}
}

func newTestModel(t *testing.T, backend *fakeBackend, opts Options) (Model, *recorder) {
	t.Helper()
	rec := newRecorder()
	return NewModel(backend, NewBridge(rec), opts), rec
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok, "Update must return a Model")
	return nm, cmd
}

// collect runs cmd, expanding batches, and returns every message produced.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed applies msgs in order and returns the resulting model.
func feed(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		m, _ = update(t, m, msg)
	}
	return m
}

// mountView mounts v and applies its first poll results and one-shot fetches.
func mountView(t *testing.T, m Model, rec *recorder, v ViewID) Model {
	t.Helper()
	m, cmd := update(t, m, mountMsg{view: v})
	for i := 0; i < m.Pollers(); i++ {
		m = feed(t, m, rec.next(t))
	}
	return feed(t, m, collect(cmd)...)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}
