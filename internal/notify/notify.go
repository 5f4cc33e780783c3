// Package notify turns successive alert lists into "new alert" notifications.
//
// A Notifier remembers which alert ids it has already seen. The first list
// it observes only primes that memory, so alerts that were active before
// the view opened do not all pop at once.
package notify

import (
	"sync"

	"github.com/wastewise/wastewise/internal/api"
)

// State is the priming state of a Notifier.
type State int

const (
	Uninitialized State = iota
	Primed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Primed:
		return "primed"
	default:
		return "unknown"
	}
}

// Notification announces an alert that was not present before.
type Notification struct {
	AlertID   api.AlertID `json:"id"`
	Message   string      `json:"message"`
	Location  string      `json:"location"`
	Timestamp string      `json:"timestamp"`
}

func fromAlert(a api.Alert) Notification {
	return Notification{
		AlertID:   a.ID,
		Message:   a.Message,
		Location:  a.Location,
		Timestamp: a.Timestamp,
	}
}

// Notifier diffs alert lists against a baseline of known ids.
// It is safe for concurrent use.
type Notifier struct {
	mu       sync.Mutex
	state    State
	renotify bool
	known    map[api.AlertID]struct{}
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithRenotify selects the baseline policy. When true the baseline is only
// the previous list, so an alert that disappears and comes back notifies
// again. When false (the default) every id seen since priming stays known,
// so the baseline grows with every distinct alert until Reset; a view
// session lasts minutes to hours, which keeps that small.
func WithRenotify(enabled bool) Option {
	return func(n *Notifier) { n.renotify = enabled }
}

// New returns an uninitialized Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{known: make(map[api.AlertID]struct{})}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Observe records alerts and returns a notification for each alert whose id
// is not in the baseline, in the order the alerts appear. The first call
// primes the baseline and returns nothing, even for an empty list.
func (n *Notifier) Observe(alerts []api.Alert) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == Uninitialized {
		n.known = idSet(alerts)
		n.state = Primed
		return nil
	}

	var out []Notification
	emitted := make(map[api.AlertID]struct{})
	for _, a := range alerts {
		if _, ok := n.known[a.ID]; ok {
			continue
		}
		if _, ok := emitted[a.ID]; ok {
			continue
		}
		emitted[a.ID] = struct{}{}
		out = append(out, fromAlert(a))
	}

	if n.renotify {
		n.known = idSet(alerts)
	} else {
		for id := range emitted {
			n.known[id] = struct{}{}
		}
	}
	return out
}

// State reports whether the baseline has been primed.
func (n *Notifier) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Reset forgets the baseline; the next Observe primes again.
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = Uninitialized
	n.known = make(map[api.AlertID]struct{})
}

// Known returns how many ids are in the baseline.
func (n *Notifier) Known() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.known)
}

func idSet(alerts []api.Alert) map[api.AlertID]struct{} {
	set := make(map[api.AlertID]struct{}, len(alerts))
	for _, a := range alerts {
		set[a.ID] = struct{}{}
	}
	return set
}
