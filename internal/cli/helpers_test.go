package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise/internal/api"
)

// fakeBackend is an in-memory bin backend served over httptest.
type fakeBackend struct {
	mu       sync.Mutex
	stats    api.CurrentStats
	history  api.HistoricalStats
	alerts   []api.Alert // nil encodes as null, as a Go backend with no alerts does
	settings api.Settings
	fail     map[string]int // path -> status to answer with

	calls map[string]int // "METHOD path" -> count
	saved []api.Settings
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		stats: api.CurrentStats{
			FillLevel:   72,
			Temperature: 81.5,
			Composition: api.Composition{Recyclable: 40, Organic: 30, NonRecyclable: 30},
		},
		history: api.HistoricalStats{
			History: []api.HistoryRecord{
				{Timestamp: "2026-10-18 09:00:00", Recyclable: 45, Organic: 25, NonRecyclable: 30, Efficiency: 35, MaxTemperature: 88, FillDuration: 36},
				{Timestamp: "2026-10-16 21:00:00", Recyclable: 50, Organic: 20, NonRecyclable: 30, Efficiency: 35, MaxTemperature: 84, FillDuration: 40},
			},
			Averages: api.Averages{Efficiency: 35, MaxTemperature: 86, FillDuration: 38},
		},
		settings: api.Settings{
			Notifications: api.Notifications{Email: true, Push: true, SMS: false},
			Thresholds:    api.Thresholds{Capacity: 80, Temperature: 90},
		},
		fail:  make(map[string]int),
		calls: make(map[string]int),
	}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[r.Method+" "+r.URL.Path]++

	if status, ok := b.fail[r.URL.Path]; ok {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "backend says no"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/current-stats":
		writeJSON(w, b.stats)
	case r.Method == http.MethodGet && r.URL.Path == "/api/historical-stats":
		writeJSON(w, b.history)
	case r.Method == http.MethodGet && r.URL.Path == "/api/alerts":
		writeJSON(w, b.alerts)
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/alerts/") && strings.HasSuffix(r.URL.Path, "/dismiss"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/alerts/"), "/dismiss")
		for i, a := range b.alerts {
			if a.ID.String() == id {
				b.alerts = append(b.alerts[:i], b.alerts[i+1:]...)
				writeJSON(w, api.Ack{Message: "Alert dismissed"})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"error": "Alert not found"})
	case r.Method == http.MethodGet && r.URL.Path == "/api/settings":
		writeJSON(w, b.settings)
	case r.Method == http.MethodPost && r.URL.Path == "/api/settings":
		var s api.Settings
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.settings = s
		b.saved = append(b.saved, s)
		writeJSON(w, api.SaveResult{Message: "Settings updated successfully"})
	case r.Method == http.MethodPost && r.URL.Path == "/api/reset-bin":
		b.stats = api.CurrentStats{}
		writeJSON(w, api.Ack{Message: "Bin reset successfully"})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) setAlerts(alerts ...api.Alert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = alerts
}

func (b *fakeBackend) callCount(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *fakeBackend) savedSettings() []api.Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.Settings(nil), b.saved...)
}

// startBackend serves b and returns a client pointed at it.
func startBackend(t *testing.T, b *fakeBackend) *api.Client {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL + "/api")
	require.NoError(t, err)
	return client
}

// withMachineMode turns on --json for the duration of a test.
func withMachineMode(t *testing.T) {
	t.Helper()
	old := machineMode
	machineMode = true
	t.Cleanup(func() { machineMode = old })
}

// decodeEnvelope parses a JSONEnvelope, decoding Data into data when non-nil.
func decodeEnvelope(t *testing.T, raw []byte, data interface{}) JSONEnvelope {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *JSONError      `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &env), "output: %s", raw)
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return JSONEnvelope{Success: env.Success, Error: env.Error}
}

// syncBuffer is a bytes.Buffer safe to read while a poller writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}
