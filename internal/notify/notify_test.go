package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wastewise/wastewise/internal/api"
)

func alert(id string) api.Alert {
	return api.Alert{
		ID:        api.AlertID(id),
		Message:   "Alert " + id,
		Location:  "Main Street Bin",
		Timestamp: "2024-03-01 10:00:00",
	}
}

func alerts(ids ...string) []api.Alert {
	out := make([]api.Alert, 0, len(ids))
	for _, id := range ids {
		out = append(out, alert(id))
	}
	return out
}

func ids(ns []Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, string(n.AlertID))
	}
	return out
}

func TestObserve_FirstCallPrimes(t *testing.T) {
	tests := []struct {
		name  string
		first []api.Alert
	}{
		{"non-empty list", alerts("1", "2", "3")},
		{"empty list", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New()
			assert.Equal(t, Uninitialized, n.State())

			assert.Empty(t, n.Observe(tt.first))
			assert.Equal(t, Primed, n.State())
		})
	}
}

func TestObserve_EmptyPrimeThenAlertsNotify(t *testing.T) {
	n := New()
	n.Observe([]api.Alert{})

	got := n.Observe(alerts("1"))
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestObserve_DiffInNewListOrder(t *testing.T) {
	tests := []struct {
		name string
		prev []api.Alert
		next []api.Alert
		want []string
	}{
		{"nothing new", alerts("1", "2"), alerts("2", "1"), []string{}},
		{"one new", alerts("1"), alerts("1", "2"), []string{"2"}},
		{"new ids keep list order", alerts("5"), alerts("9", "5", "7", "8"), []string{"9", "7", "8"}},
		{"removal alone is silent", alerts("1", "2"), alerts("1"), []string{}},
		{"message change is not new", alerts("1"), []api.Alert{{ID: "1", Message: "edited"}}, []string{}},
	}

	for _, tt := range tests {
		for _, renotify := range []bool{false, true} {
			t.Run(tt.name, func(t *testing.T) {
				n := New(WithRenotify(renotify))
				n.Observe(tt.prev)
				assert.Equal(t, tt.want, ids(n.Observe(tt.next)))
			})
		}
	}
}

func TestObserve_NotificationCarriesAlertFields(t *testing.T) {
	n := New()
	n.Observe(nil)

	got := n.Observe([]api.Alert{{
		ID:        "42",
		Message:   "Bin is 90% full",
		Location:  "Park Ave",
		Timestamp: "2024-03-01 12:00:00",
	}})

	require.Len(t, got, 1)
	assert.Equal(t, Notification{
		AlertID:   "42",
		Message:   "Bin is 90% full",
		Location:  "Park Ave",
		Timestamp: "2024-03-01 12:00:00",
	}, got[0])
}

func TestObserve_DuplicateIDsNotifyOnce(t *testing.T) {
	n := New()
	n.Observe(nil)

	got := n.Observe(alerts("3", "3", "4"))
	assert.Equal(t, []string{"3", "4"}, ids(got))
	assert.Empty(t, n.Observe(alerts("3", "4")))
}

func TestObserve_ReappearingID(t *testing.T) {
	t.Run("default policy does not renotify", func(t *testing.T) {
		n := New()
		n.Observe(alerts("1"))
		assert.Empty(t, n.Observe(nil))
		assert.Empty(t, n.Observe(alerts("1")))
	})

	t.Run("strict policy renotifies", func(t *testing.T) {
		n := New(WithRenotify(true))
		n.Observe(alerts("1"))
		assert.Empty(t, n.Observe(nil))
		assert.Equal(t, []string{"1"}, ids(n.Observe(alerts("1"))))
	})
}

// Polls: [{1},{2}] primes; [{1},{2},{3}] notifies 3; [{2},{3}] is silent;
// [{2},{3},{1}] depends on the reappearance policy.
func TestObserve_EndToEnd(t *testing.T) {
	polls := [][]api.Alert{
		alerts("1", "2"),
		alerts("1", "2", "3"),
		alerts("2", "3"),
		alerts("2", "3", "1"),
	}

	tests := []struct {
		name     string
		renotify bool
		want     [][]string
	}{
		{
			name: "seen ids stay known",
			want: [][]string{{}, {"3"}, {}, {}},
		},
		{
			name:     "previous list only",
			renotify: true,
			want:     [][]string{{}, {"3"}, {}, {"1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(WithRenotify(tt.renotify))
			for i, p := range polls {
				assert.Equal(t, tt.want[i], ids(n.Observe(p)), "poll %d", i)
			}
		})
	}
}

func TestReset(t *testing.T) {
	n := New()
	n.Observe(alerts("1", "2"))
	n.Observe(alerts("1", "2", "3"))
	assert.Equal(t, 3, n.Known())

	n.Reset()
	assert.Equal(t, Uninitialized, n.State())
	assert.Zero(t, n.Known())

	assert.Empty(t, n.Observe(alerts("1", "2", "3", "4")), "re-priming after reset")
	assert.Equal(t, Primed, n.State())
}

func TestIndependentNotifiers(t *testing.T) {
	dashboard := New()
	alertsView := New()

	dashboard.Observe(alerts("1"))
	assert.Equal(t, Uninitialized, alertsView.State())

	alertsView.Observe(nil)
	assert.Equal(t, []string{"1"}, ids(alertsView.Observe(alerts("1"))))
	assert.Empty(t, dashboard.Observe(alerts("1")))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "primed", Primed.String())
	assert.Equal(t, "unknown", State(9).String())
}
