package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/logger"
	"github.com/wastewise/wastewise/internal/notify"
	"github.com/wastewise/wastewise/internal/poll"
	"github.com/wastewise/wastewise/internal/settings"
)

// ViewID identifies one of the dashboard's views.
type ViewID int

const (
	ViewDashboard ViewID = iota
	ViewAnalytics
	ViewAlerts
	ViewSettings
)

const viewCount = 4

// String returns the tab label of the view.
func (v ViewID) String() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewAnalytics:
		return "Analytics"
	case ViewAlerts:
		return "Alerts"
	case ViewSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Next cycles to the following view.
func (v ViewID) Next() ViewID {
	return ViewID((int(v) + 1) % viewCount)
}

// Prev cycles to the preceding view.
func (v ViewID) Prev() ViewID {
	return ViewID((int(v) + viewCount - 1) % viewCount)
}

// ParseView resolves a view name as accepted by --view.
func ParseView(s string) (ViewID, bool) {
	for v := ViewDashboard; v < viewCount; v++ {
		if strings.EqualFold(s, v.String()) {
			return v, true
		}
	}
	return ViewDashboard, false
}

// ViewNames lists the names ParseView accepts, in tab order.
func ViewNames() []string {
	names := make([]string, 0, viewCount)
	for v := ViewDashboard; v < viewCount; v++ {
		names = append(names, strings.ToLower(v.String()))
	}
	return names
}

// Backend is the part of the API client the dashboard calls.
type Backend interface {
	GetCurrentStats(ctx context.Context) (api.CurrentStats, error)
	GetHistoricalStats(ctx context.Context) (api.HistoricalStats, error)
	GetAlerts(ctx context.Context) ([]api.Alert, error)
	DismissAlert(ctx context.Context, id api.AlertID) (api.Ack, error)
	GetSettings(ctx context.Context) (api.Settings, error)
	SaveSettings(ctx context.Context, s api.Settings) (api.SaveResult, error)
	ResetBin(ctx context.Context) (api.Ack, error)
}

// Options tunes the dashboard. Zero values fall back to defaults.
type Options struct {
	Interval       time.Duration
	StatusDuration time.Duration
	ToastDuration  time.Duration
	Renotify       bool
	InitialView    ViewID

	// RefreshRate and RefreshBurst throttle the manual refresh key.
	RefreshRate  rate.Limit
	RefreshBurst int

	Logger logger.Logger
}

// Defaults for Options.
const (
	DefaultStatusDuration = 2500 * time.Millisecond
	DefaultToastDuration  = 5 * time.Second
	DefaultRefreshRate    = rate.Limit(0.5)
	DefaultRefreshBurst   = 2
	DefaultCapacity       = 80
	maxToasts             = 3
)

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = poll.DefaultInterval
	}
	if o.StatusDuration <= 0 {
		o.StatusDuration = DefaultStatusDuration
	}
	if o.ToastDuration <= 0 {
		o.ToastDuration = DefaultToastDuration
	}
	if o.RefreshRate <= 0 {
		o.RefreshRate = DefaultRefreshRate
	}
	if o.RefreshBurst <= 0 {
		o.RefreshBurst = DefaultRefreshBurst
	}
	if o.Logger == nil {
		o.Logger = logger.Noop()
	}
	if o.InitialView < 0 || o.InitialView >= viewCount {
		o.InitialView = ViewDashboard
	}
	return o
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusError
)

// transient is a message that clears itself after a delay.
type transient struct {
	text string
	kind statusKind
	seq  int
}

type toast struct {
	seq int
	n   notify.Notification
}

// Model is the Bubble Tea model for the bin dashboard.
//
// Only the view that is mounted has poll handles running. Switching views
// stops them, bumps the session counter, and starts the new view's handles,
// so results still in flight for the old view are recognised and dropped.
type Model struct {
	backend Backend
	bridge  *Bridge
	opts    Options
	log     logger.Logger

	view     ViewID
	session  int
	mounted  bool
	pollers  *poll.Group
	notifier *notify.Notifier
	editor   *settings.Editor
	refresh  *rate.Limiter

	stats      *api.CurrentStats
	statsErr   error
	alerts     []api.Alert
	alertsOK   bool
	alertsErr  error
	history    *api.HistoricalStats
	historyErr error
	capacity   int
	lastUpdate time.Time

	// alerts view
	selected    int
	alertStatus map[api.AlertID]transient
	newAlerts   map[api.AlertID]int // id -> badge seq

	// dashboard view
	confirmReset bool
	resetting    bool

	// settings view
	settingsRow  int
	settingsBusy bool
	settingsErr  error

	status *transient
	toasts []toast
	seq    int

	spinner  spinner.Model
	progress progress.Model
	help     help.Model
	keys     keyMap
	showHelp bool

	width    int
	height   int
	quitting bool
}

// NewModel builds a dashboard over backend. Poll results reach the running
// program through bridge, which must be attached before the program starts.
func NewModel(backend Backend, bridge *Bridge, opts Options) Model {
	opts = opts.withDefaults()
	if bridge == nil {
		bridge = NewBridge(nil)
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Spinner{
		Frames: []string{"◐", "◓", "◑", "◒"},
		FPS:    time.Second / 10,
	}))
	sp.Style = LabelStyle

	bar := progress.New(progress.WithSolidFill(string(ColorAccent)), progress.WithoutPercentage())
	bar.Width = 40

	return Model{
		backend:     backend,
		bridge:      bridge,
		opts:        opts,
		log:         opts.Logger,
		view:        opts.InitialView,
		pollers:     &poll.Group{},
		notifier:    notify.New(notify.WithRenotify(opts.Renotify)),
		editor:      settings.NewEditor(backend),
		refresh:     rate.NewLimiter(opts.RefreshRate, opts.RefreshBurst),
		capacity:    DefaultCapacity,
		alertStatus: make(map[api.AlertID]transient),
		newAlerts:   make(map[api.AlertID]int),
		spinner:     sp,
		progress:    bar,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init mounts the initial view and starts the spinner.
func (m Model) Init() tea.Cmd {
	view := m.view
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return mountMsg{view: view} },
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		_, cmd := m.HandleKeyMsg(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = clampInt(msg.Width-24, 10, 60)
		return m, nil

	case mountMsg:
		return m, m.mount(msg.view)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statsMsg:
		if msg.session == m.session {
			m.applyStats(msg)
		}
		return m, nil

	case alertsMsg:
		if msg.session != m.session {
			return m, nil
		}
		return m, m.applyAlerts(msg)

	case historyMsg:
		if msg.session == m.session {
			m.applyHistory(msg)
		}
		return m, nil

	case settingsMsg:
		if msg.session != m.session {
			return m, nil
		}
		return m, m.applySettings(msg)

	case dismissMsg:
		if msg.session != m.session {
			return m, nil
		}
		return m, m.applyDismiss(msg)

	case resetBinMsg:
		if msg.session != m.session {
			return m, nil
		}
		return m, m.applyResetBin(msg)

	case clearStatusMsg:
		if m.status != nil && m.status.seq == msg.seq {
			m.status = nil
		}
		return m, nil

	case clearToastMsg:
		m.dropToast(msg.seq)
		return m, nil

	case clearNewBadgeMsg:
		if seq, ok := m.newAlerts[msg.id]; ok && seq == msg.seq {
			delete(m.newAlerts, msg.id)
		}
		return m, nil

	case clearAlertStatusMsg:
		if st, ok := m.alertStatus[msg.id]; ok && st.seq == msg.seq {
			delete(m.alertStatus, msg.id)
		}
		return m, nil
	}

	return m, nil
}

// mount makes v the active view: the previous view's pollers are stopped,
// its data is dropped, and v's resources are fetched fresh.
func (m *Model) mount(v ViewID) tea.Cmd {
	m.unmount()

	m.view = v
	m.keys.view = v
	m.session++
	m.mounted = true
	session := m.session

	m.pollers = &poll.Group{}
	m.notifier = notify.New(notify.WithRenotify(m.opts.Renotify))
	m.editor = settings.NewEditor(m.backend)

	m.stats, m.statsErr = nil, nil
	m.alerts, m.alertsOK, m.alertsErr = nil, false, nil
	m.history, m.historyErr = nil, nil
	m.selected = 0
	m.alertStatus = make(map[api.AlertID]transient)
	m.newAlerts = make(map[api.AlertID]int)
	m.confirmReset, m.resetting = false, false
	m.settingsRow, m.settingsBusy, m.settingsErr = 0, false, nil

	var cmds []tea.Cmd
	switch v {
	case ViewDashboard:
		m.startPoll("current-stats", statsPoller(m.backend, m.bridge, session))
		m.startPoll("alerts", alertsPoller(m.backend, m.bridge, session))
		// The fill bar is colored against the saved capacity threshold.
		cmds = append(cmds, settingsCmd(m.editor, session, settingsLoaded))
	case ViewAnalytics:
		m.startPoll("current-stats", statsPoller(m.backend, m.bridge, session))
		cmds = append(cmds, historyCmd(m.backend, session))
	case ViewAlerts:
		m.startPoll("alerts", alertsPoller(m.backend, m.bridge, session))
	case ViewSettings:
		m.settingsBusy = true
		cmds = append(cmds, settingsCmd(m.editor, session, settingsLoaded))
	}
	m.log.Debug("mounted %s view (session %d)", v, session)
	return tea.Batch(cmds...)
}

// unmount stops the active view's pollers and forgets its alert baseline.
func (m *Model) unmount() {
	if !m.mounted {
		return
	}
	m.pollers.Stop()
	m.notifier.Reset()
	m.mounted = false
}

// Close stops any running pollers. Call it after the program exits.
func (m *Model) Close() {
	m.unmount()
}

func (m *Model) startPoll(name string, fn poll.Func) {
	m.pollers.Add(poll.Start(fn, m.opts.Interval,
		poll.WithName(name),
		poll.WithLogger(m.log),
	))
}

func (m *Model) applyStats(msg statsMsg) {
	if msg.err != nil {
		m.statsErr = msg.err
		return
	}
	stats := msg.stats
	m.stats = &stats
	m.statsErr = nil
	m.lastUpdate = time.Now()
}

func (m *Model) applyAlerts(msg alertsMsg) tea.Cmd {
	if msg.err != nil {
		m.alertsErr = msg.err
		return nil
	}
	m.alerts = msg.alerts
	m.alertsOK = true
	m.alertsErr = nil
	m.lastUpdate = time.Now()
	m.clampSelection()

	fresh := m.notifier.Observe(msg.alerts)
	cmds := make([]tea.Cmd, 0, len(fresh))
	if m.view != ViewDashboard {
		for _, n := range fresh {
			cmds = append(cmds, m.markNew(n.AlertID))
		}
		return tea.Batch(cmds...)
	}
	for _, n := range fresh {
		cmds = append(cmds, m.pushToast(n))
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyHistory(msg historyMsg) {
	if msg.err != nil {
		m.historyErr = msg.err
		return
	}
	h := msg.history
	m.history = &h
	m.historyErr = nil
}

func (m *Model) applyResetBin(msg resetBinMsg) tea.Cmd {
	m.resetting = false
	if msg.err != nil {
		m.log.Warn("reset bin failed: %v", msg.err)
		return m.setStatus("Failed to reset bin", statusError)
	}
	return tea.Batch(
		m.setStatus("Bin reset successfully", statusOK),
		statsCmd(m.backend, m.session),
	)
}

// refreshCmd re-fetches the active view's resources, subject to the
// refresh limiter.
func (m *Model) refreshCmd() tea.Cmd {
	if !m.refresh.Allow() {
		return m.setStatus("Refreshing too fast, try again in a moment", statusInfo)
	}
	s := m.session
	switch m.view {
	case ViewDashboard:
		return tea.Batch(statsCmd(m.backend, s), alertsCmd(m.backend, s))
	case ViewAnalytics:
		return tea.Batch(statsCmd(m.backend, s), historyCmd(m.backend, s))
	case ViewAlerts:
		return alertsCmd(m.backend, s)
	case ViewSettings:
		if m.editor.Dirty() {
			return m.setStatus("Unsaved changes; press x to discard them first", statusInfo)
		}
		m.settingsBusy = true
		return settingsCmd(m.editor, s, settingsLoaded)
	}
	return nil
}

// setStatus shows a transient status line and schedules its removal.
func (m *Model) setStatus(text string, kind statusKind) tea.Cmd {
	m.seq++
	seq := m.seq
	m.status = &transient{text: text, kind: kind, seq: seq}
	return tea.Tick(m.opts.StatusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) pushToast(n notify.Notification) tea.Cmd {
	m.seq++
	seq := m.seq
	m.toasts = append(m.toasts, toast{seq: seq, n: n})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return tea.Tick(m.opts.ToastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

// markNew badges an alert row as new until the toast duration passes.
func (m *Model) markNew(id api.AlertID) tea.Cmd {
	m.seq++
	seq := m.seq
	m.newAlerts[id] = seq
	return tea.Tick(m.opts.ToastDuration, func(time.Time) tea.Msg {
		return clearNewBadgeMsg{id: id, seq: seq}
	})
}

func (m *Model) dropToast(seq int) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.seq != seq {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// View renders the active view with the tab bar and footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderFrame()
}

// ActiveView returns the mounted view.
func (m Model) ActiveView() ViewID {
	return m.view
}

// Session returns the current mount session counter.
func (m Model) Session() int {
	return m.session
}

// Pollers returns how many poll handles the active view is running.
func (m Model) Pollers() int {
	return m.pollers.Len()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
