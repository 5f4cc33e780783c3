package config

import (
	"os"

	"github.com/wastewise/wastewise/internal/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with durations as strings, since yaml.v3
// writes time.Duration as nanoseconds.
type fileConfig struct {
	Version int `yaml:"version"`
	API     struct {
		BaseURL   string  `yaml:"base_url"`
		Timeout   string  `yaml:"timeout"`
		RateLimit float64 `yaml:"rate_limit"`
	} `yaml:"api"`
	Poll struct {
		Interval string `yaml:"interval"`
	} `yaml:"poll"`
	Notify NotifyConfig `yaml:"notify"`
	UI     struct {
		StatusDuration string `yaml:"status_duration"`
		ToastDuration  string `yaml:"toast_duration"`
	} `yaml:"ui"`
}

const fileHeader = `# WasteWise client configuration
# Every key can be overridden with WASTEWISE_<SECTION>_<KEY>, e.g. WASTEWISE_POLL_INTERVAL=10s

`

// Marshal renders cfg as YAML with a short header comment.
func Marshal(cfg *Config) ([]byte, error) {
	var fc fileConfig
	fc.Version = cfg.Version
	fc.API.BaseURL = cfg.API.BaseURL
	fc.API.Timeout = cfg.API.Timeout.String()
	fc.API.RateLimit = cfg.API.RateLimit
	fc.Poll.Interval = cfg.Poll.Interval.String()
	fc.Notify = cfg.Notify
	fc.UI.StatusDuration = cfg.UI.StatusDuration.String()
	fc.UI.ToastDuration = cfg.UI.ToastDuration.String()

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}
	return append([]byte(fileHeader), data...), nil
}

// Write saves cfg to path. Existing files are only replaced when force is set.
func Write(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Use --force to overwrite it")
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file: "+path,
			"Check directory permissions")
	}
	return nil
}
