package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/wastewise/wastewise/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".wastewise.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/wastewise"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes every environment override (WASTEWISE_POLL_INTERVAL, ...).
	EnvPrefix = "WASTEWISE"
)

// Load resolves and reads the config.
// A .env file in the working directory is loaded first; then the config
// file is located with Find. No file means defaults plus environment.
func Load(explicit string) (*Config, error) {
	// Missing .env is the common case.
	_ = godotenv.Load()

	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML: "+path)
		}
	}

	cfg, err := parseConfig(v, path)
	if err != nil {
		return nil, err
	}
	cfg.Path = path

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns a viper instance with defaults and env bindings registered.
// Every key needs a default so AutomaticEnv can see it during Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout", def.API.Timeout)
	v.SetDefault("api.rate_limit", def.API.RateLimit)
	v.SetDefault("poll.interval", def.Poll.Interval)
	v.SetDefault("notify.renotify_reappeared", def.Notify.RenotifyReappeared)
	v.SetDefault("ui.status_duration", def.UI.StatusDuration)
	v.SetDefault("ui.toast_duration", def.UI.ToastDuration)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Shorter alias for the one variable people set most.
	_ = v.BindEnv("api.base_url", EnvPrefix+"_API_URL", EnvPrefix+"_API_BASE_URL")

	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		where := "environment"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}
	cfg.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)
	return cfg, nil
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .wastewise.yaml in current directory
// 3. .wastewise.yaml in parent directories (stops at git root or home)
// 4. ~/.config/wastewise/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct, or run 'wastewise init'")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	// A git root in cwd ends the search here
	_, gitErr := os.Stat(filepath.Join(cwd, ".git"))
	for gitErr != nil {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		// Stop at git root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}
