package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .wastewise.yaml configuration file.
type Config struct {
	Version int          `yaml:"version" mapstructure:"version" validate:"gte=0"`
	API     APIConfig    `yaml:"api" mapstructure:"api"`
	Poll    PollConfig   `yaml:"poll" mapstructure:"poll"`
	Notify  NotifyConfig `yaml:"notify" mapstructure:"notify"`
	UI      UIConfig     `yaml:"ui" mapstructure:"ui"`

	// Path is the file the config was read from, empty when defaults were used.
	Path string `yaml:"-" mapstructure:"-"`
}

// APIConfig describes how to reach the bin backend.
type APIConfig struct {
	// BaseURL is the backend root, with or without the trailing /api.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// RateLimit caps outbound requests per second. Zero disables the limit.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`
}

// PollConfig controls the refresh cycle of the dashboard views.
type PollConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"min=1s"`
}

// NotifyConfig controls new-alert toasts.
type NotifyConfig struct {
	// RenotifyReappeared makes an alert id that disappeared and came back
	// notify again. Off by default: every id seen in a session counts as known.
	RenotifyReappeared bool `yaml:"renotify_reappeared" mapstructure:"renotify_reappeared"`
}

// UIConfig controls transient messages in the dashboard.
type UIConfig struct {
	StatusDuration time.Duration `yaml:"status_duration" mapstructure:"status_duration" validate:"gt=0"`
	ToastDuration  time.Duration `yaml:"toast_duration" mapstructure:"toast_duration" validate:"gt=0"`
}

// Defaults
const (
	DefaultBaseURL        = "http://localhost:5000/api"
	DefaultTimeout        = 10 * time.Second
	DefaultPollInterval   = 30 * time.Second
	DefaultStatusDuration = 2500 * time.Millisecond
	DefaultToastDuration  = 5 * time.Second
	MinPollInterval       = time.Second
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Poll: PollConfig{
			Interval: DefaultPollInterval,
		},
		UI: UIConfig{
			StatusDuration: DefaultStatusDuration,
			ToastDuration:  DefaultToastDuration,
		},
	}
}

// Overrides are command-line values that take precedence over the file.
type Overrides struct {
	APIURL   string
	Interval time.Duration
}

// Apply copies non-zero overrides onto cfg.
func (o Overrides) Apply(cfg *Config) {
	if o.APIURL != "" {
		cfg.API.BaseURL = o.APIURL
	}
	if o.Interval != 0 {
		cfg.Poll.Interval = o.Interval
	}
}
