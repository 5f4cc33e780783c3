package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/errors"
	"github.com/wastewise/wastewise/internal/settings"
	"github.com/wastewise/wastewise/internal/ui"
)

// settingsSetOptions holds the flags of `settings set`. Channel flags are
// empty when not given.
type settingsSetOptions struct {
	Email       string `validate:"omitempty,oneof=on off true false yes no"`
	Push        string `validate:"omitempty,oneof=on off true false yes no"`
	SMS         string `validate:"omitempty,oneof=on off true false yes no"`
	Capacity    int
	Temperature float64

	capacitySet    bool
	temperatureSet bool
}

var flagValidator = validator.New()

// validate checks the flags before anything is sent to the backend.
func (o *settingsSetOptions) validate() error {
	o.Email = strings.ToLower(strings.TrimSpace(o.Email))
	o.Push = strings.ToLower(strings.TrimSpace(o.Push))
	o.SMS = strings.ToLower(strings.TrimSpace(o.SMS))

	if o.Email == "" && o.Push == "" && o.SMS == "" && !o.capacitySet && !o.temperatureSet {
		return errors.New(errors.ErrInput,
			"Nothing to change",
			"Pass at least one of --email, --push, --sms, --capacity, --temperature")
	}

	if err := flagValidator.Struct(o); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return errors.New(errors.ErrInput,
				fmt.Sprintf("--%s must be on or off, got %q", strings.ToLower(fe.Field()), fe.Value()),
				"Use on/off, true/false, or yes/no")
		}
		return errors.WrapWithCode(err, errors.ErrInput, "Invalid flags", "")
	}

	if o.capacitySet || o.temperatureSet {
		// Unset thresholds are checked at a known-good value.
		t := api.Thresholds{Capacity: api.CapacityMin, Temperature: api.TemperatureMin}
		if o.capacitySet {
			t.Capacity = o.Capacity
		}
		if o.temperatureSet {
			t.Temperature = o.Temperature
		}
		if err := settings.ValidateThresholds(t); err != nil {
			return err
		}
	}
	return nil
}

// channels returns the requested channel changes.
func (o settingsSetOptions) channels() map[settings.Channel]bool {
	out := make(map[settings.Channel]bool)
	for ch, v := range map[settings.Channel]string{settings.Email: o.Email, settings.Push: o.Push, settings.SMS: o.SMS} {
		if v != "" {
			out[ch] = parseOnOff(v)
		}
	}
	return out
}

// parseOnOff reads an already validated on/off value.
func parseOnOff(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes":
		return true
	}
	return false
}

// settingsOutput is the --json shape of the settings commands.
type settingsOutput struct {
	Message  string       `json:"message,omitempty"`
	Settings api.Settings `json:"settings"`
}

func settingsShowCommand(ctx context.Context, w io.Writer, client settings.Store, asYAML bool) error {
	s, err := client.GetSettings(ctx)
	if err != nil {
		return err
	}
	return emit(w, settingsOutput{Settings: s}, func() error {
		if asYAML {
			return writeSettingsYAML(w, s)
		}
		fmt.Fprint(w, renderSettings(s))
		return nil
	})
}

func settingsSetCommand(ctx context.Context, w io.Writer, client settings.Store, opts settingsSetOptions) error {
	editor := settings.NewEditor(client)
	if _, err := editor.Load(ctx); err != nil {
		return err
	}

	for ch, on := range opts.channels() {
		if err := editor.SetChannel(ch, on); err != nil {
			return err
		}
	}
	if opts.capacitySet {
		editor.SetCapacity(opts.Capacity)
	}
	if opts.temperatureSet {
		editor.SetTemperature(opts.Temperature)
	}

	if !editor.Dirty() {
		out := settingsOutput{Message: "Settings already up to date", Settings: editor.Server()}
		return emit(w, out, func() error {
			fmt.Fprintln(w, ui.MutedStyle.Render(out.Message))
			return nil
		})
	}

	res, err := editor.Save(ctx)
	if err != nil {
		return err
	}
	out := settingsOutput{Message: res.Message, Settings: editor.Server()}
	if out.Message == "" {
		out.Message = "Settings saved successfully"
	}
	return emit(w, out, func() error {
		fmt.Fprintln(w, ui.SuccessStyle.Render(ui.SymbolSuccess+" "+out.Message))
		fmt.Fprint(w, renderSettings(out.Settings))
		return nil
	})
}

func renderSettings(s api.Settings) string {
	return ui.RenderKeyValues([]ui.KeyValue{
		{Key: "Email", Value: ui.OnOff(s.Notifications.Email)},
		{Key: "Push", Value: ui.OnOff(s.Notifications.Push)},
		{Key: "SMS", Value: ui.OnOff(s.Notifications.SMS)},
		{Key: "Capacity alert", Value: fmt.Sprintf("%d%%", s.Thresholds.Capacity)},
		{Key: "Temperature alert", Value: ui.FormatTemperature(s.Thresholds.Temperature)},
	})
}

// writeSettingsYAML prints settings with the backend's key names.
func writeSettingsYAML(w io.Writer, s api.Settings) error {
	doc := map[string]interface{}{
		"notifications": map[string]bool{
			"email": s.Notifications.Email,
			"push":  s.Notifications.Push,
			"sms":   s.Notifications.SMS,
		},
		"thresholds": map[string]interface{}{
			"capacity":    s.Thresholds.Capacity,
			"temperature": s.Thresholds.Temperature,
		},
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
