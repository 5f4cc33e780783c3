// Package settings holds a local draft of the bin's settings that is edited
// in place and only sent to the backend on an explicit save.
package settings

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/errors"
	"github.com/wastewise/wastewise/internal/util"
)

// Store is the part of the API client the editor talks to.
type Store interface {
	GetSettings(ctx context.Context) (api.Settings, error)
	SaveSettings(ctx context.Context, s api.Settings) (api.SaveResult, error)
}

// Channel is a notification channel that can be toggled.
type Channel string

const (
	Email Channel = "email"
	Push  Channel = "push"
	SMS   Channel = "sms"
)

// Channels lists every channel in display order.
var Channels = []Channel{Email, Push, SMS}

// ParseChannel resolves a channel name, case-insensitively.
func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Channels {
		if c == known {
			return c, nil
		}
	}
	return "", unknownChannel(s)
}

func unknownChannel(s string) error {
	names := make([]string, len(Channels))
	for i, c := range Channels {
		names[i] = string(c)
	}
	return errors.New(errors.ErrInput,
		fmt.Sprintf("Unknown notification channel %q", s),
		util.DidYouMean(s, names, "Use one of: "+util.JoinOrNone(names)))
}

// Editor owns the draft and the last settings confirmed by the server.
// All methods are safe for concurrent use.
type Editor struct {
	store Store

	mu     sync.Mutex
	draft  api.Settings
	server api.Settings
	loaded bool
}

// NewEditor returns an editor with an empty draft. Call Load before editing.
func NewEditor(store Store) *Editor {
	return &Editor{store: store}
}

// Load fetches the server settings and replaces both the draft and the
// server copy. On failure nothing changes.
func (e *Editor) Load(ctx context.Context) (api.Settings, error) {
	s, err := e.store.GetSettings(ctx)
	if err != nil {
		return e.Draft(), err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = s
	e.server = s
	e.loaded = true
	return e.draft, nil
}

// Reset discards unsaved edits by re-fetching from the server.
func (e *Editor) Reset(ctx context.Context) (api.Settings, error) {
	return e.Load(ctx)
}

// Save sends the whole draft. On success the draft becomes the settings
// echoed by the server, when it echoes them, and is recorded as the server
// copy. On failure the draft is left as it was.
func (e *Editor) Save(ctx context.Context) (api.SaveResult, error) {
	draft := e.Draft()
	res, err := e.store.SaveSettings(ctx, draft)
	if err != nil {
		return res, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	saved := draft
	if res.Settings != nil {
		saved = *res.Settings
	}
	// Edits made while the save was in flight stay in the draft.
	if e.draft == draft {
		e.draft = saved
	}
	e.server = saved
	e.loaded = true
	return res, nil
}

// Toggle flips one notification channel.
func (e *Editor) Toggle(c Channel) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := &e.draft.Notifications
	switch c {
	case Email:
		n.Email = !n.Email
	case Push:
		n.Push = !n.Push
	case SMS:
		n.SMS = !n.SMS
	default:
		return unknownChannel(string(c))
	}
	return nil
}

// SetChannel sets one notification channel to on.
func (e *Editor) SetChannel(c Channel, on bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := &e.draft.Notifications
	switch c {
	case Email:
		n.Email = on
	case Push:
		n.Push = on
	case SMS:
		n.SMS = on
	default:
		return unknownChannel(string(c))
	}
	return nil
}

// SetCapacity sets the capacity threshold. The value is not checked here;
// input controls clamp or validate before calling.
func (e *Editor) SetCapacity(v int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Thresholds.Capacity = v
}

// SetTemperature sets the temperature threshold without checking it.
func (e *Editor) SetTemperature(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Thresholds.Temperature = v
}

// StepCapacity moves the capacity slider by delta, clamped to its range.
func (e *Editor) StepCapacity(delta int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Thresholds.Capacity = ClampCapacity(e.draft.Thresholds.Capacity + delta)
	return e.draft.Thresholds.Capacity
}

// StepTemperature moves the temperature slider by delta, clamped to its range.
func (e *Editor) StepTemperature(delta float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Thresholds.Temperature = ClampTemperature(e.draft.Thresholds.Temperature + delta)
	return e.draft.Thresholds.Temperature
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() api.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Server returns the last settings confirmed by the backend.
func (e *Editor) Server() api.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.server
}

// Dirty reports whether the draft has unsaved edits.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft != e.server
}

// Loaded reports whether server settings have been received at least once.
func (e *Editor) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// ClampCapacity limits v to the capacity slider range.
func ClampCapacity(v int) int {
	if v < api.CapacityMin {
		return api.CapacityMin
	}
	if v > api.CapacityMax {
		return api.CapacityMax
	}
	return v
}

// ClampTemperature limits v to the temperature slider range.
func ClampTemperature(v float64) float64 {
	return math.Min(math.Max(v, api.TemperatureMin), api.TemperatureMax)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateThresholds checks t against the declared ranges. CLI flags use it
// since, unlike the sliders, they can express out-of-range values.
func ValidateThresholds(t api.Thresholds) error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.WrapWithCode(err, errors.ErrInput, "Invalid thresholds", "")
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Capacity":
		return errors.New(errors.ErrInput,
			fmt.Sprintf("Capacity threshold %v is out of range", fe.Value()),
			fmt.Sprintf("Use a value between %d and %d percent", api.CapacityMin, api.CapacityMax))
	default:
		return errors.New(errors.ErrInput,
			fmt.Sprintf("Temperature threshold %v is out of range", fe.Value()),
			fmt.Sprintf("Use a value between %.0f and %.0f °F", api.TemperatureMin, api.TemperatureMax))
	}
}
