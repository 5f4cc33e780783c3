package config

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/wastewise/wastewise/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldHints maps struct namespaces to the config key users write.
var fieldHints = map[string]string{
	"Config.API.BaseURL":       "api.base_url",
	"Config.API.Timeout":       "api.timeout",
	"Config.API.RateLimit":     "api.rate_limit",
	"Config.Poll.Interval":     "poll.interval",
	"Config.UI.StatusDuration": "ui.status_duration",
	"Config.UI.ToastDuration":  "ui.toast_duration",
	"Config.Version":           "version",
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but wastewise only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade wastewise or lower the version field")
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			return describeFieldError(verrs[0])
		}
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid config", "Check your .wastewise.yaml")
	}

	if err := validateBaseURL(cfg.API.BaseURL); err != nil {
		return err
	}
	return nil
}

func describeFieldError(fe validator.FieldError) error {
	key := fieldHints[fe.Namespace()]
	if key == "" {
		key = strings.ToLower(fe.Field())
	}

	switch fe.Tag() {
	case "required":
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' is required", key),
			"Set it in .wastewise.yaml or via the environment")
	case "url":
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' is not a valid URL: %v", key, fe.Value()),
			"Use something like http://localhost:5000/api")
	case "min":
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' is too short (%v)", key, fe.Value()),
			fmt.Sprintf("Minimum is %s to avoid hammering the backend", fe.Param()))
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' has an invalid value: %v", key, fe.Value()),
			"Durations must be positive (e.g. 10s) and rate_limit must be zero or more")
	}
}

// validateBaseURL rejects URLs that validator accepts but http cannot use.
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'api.base_url' must be an absolute http(s) URL, got %q", raw),
			"Use something like http://localhost:5000/api")
	}
	return nil
}
