package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/config"
	"github.com/wastewise/wastewise/internal/logger"
	"github.com/wastewise/wastewise/internal/ui"
)

// Global flags
var (
	cfgFile string
	apiURL  string
	verbose bool
	noColor bool
)

// rootCmd is the base command. Run without a subcommand on a terminal it
// opens the dashboard; otherwise it prints help.
var rootCmd = &cobra.Command{
	Use:   "wastewise",
	Short: "WasteWise - terminal dashboard for a smart waste bin",
	Long: `WasteWise watches a smart waste bin through its backend API.

Run it with no arguments for the live dashboard, or use the subcommands
for one-shot output suitable for scripts.

Examples:
  wastewise
  wastewise stats --history
  wastewise alerts watch
  wastewise settings set --capacity 85 --sms on`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
		logger.SetDefault(componentLogger("[wastewise]"))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return cmd.Help()
		}
		return dashboardCommand(cmd.Context(), dashboardInterval, dashboardView)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: search for "+config.ConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "print machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if machineMode {
			_ = WriteJSONFromError(os.Stdout, err)
		} else if isUnknownCommandError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\nRun 'wastewise --help' for usage.\n", err)
		} else {
			fmt.Fprint(os.Stderr, err.Error())
			if !strings.HasSuffix(err.Error(), "\n") {
				fmt.Fprintln(os.Stderr)
			}
		}
		os.Exit(1)
	}
}

// isUnknownCommandError reports whether cobra rejected the command line itself.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// loadConfig resolves the config file and applies command-line overrides.
func loadConfig(o config.Overrides) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if o.APIURL == "" {
		o.APIURL = apiURL
	}
	o.Apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds the API client described by cfg.
func newClient(cfg *config.Config) (*api.Client, error) {
	return api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRateLimit(cfg.API.RateLimit),
		api.WithUserAgent("wastewise/"+version),
		api.WithLogger(componentLogger("[api]")),
	)
}

// componentLogger returns a prefixed logger honoring --verbose.
func componentLogger(prefix string) logger.Logger {
	if verbose {
		return logger.NewVerboseLogger(prefix)
	}
	return logger.NewEnvLogger(prefix)
}

// loadClient is loadConfig followed by newClient.
func loadClient() (*config.Config, *api.Client, error) {
	cfg, err := loadConfig(config.Overrides{})
	if err != nil {
		return nil, nil, err
	}
	client, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}
