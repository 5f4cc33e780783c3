package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/errors"
)

// Command-specific flags
var (
	dashboardInterval   time.Duration
	dashboardView       string
	statsHistory        bool
	alertsWatchInterval time.Duration
	settingsShowYAML    bool
	settingsSetFlags    settingsSetOptions
	resetBinYes         bool
	initForce           bool
)

// dashboardCmd opens the live TUI
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the live dashboard",
	Long: `Open the full-screen dashboard with dashboard, analytics, alerts,
and settings views. Data refreshes every poll interval.

Examples:
  wastewise dashboard
  wastewise dashboard --interval 10s
  wastewise dashboard --view alerts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context(), dashboardInterval, dashboardView)
	},
}

// statsCmd prints current and historical bin statistics
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print current bin statistics",
	Long: `Print the bin's fill level, temperature, and waste composition.

Examples:
  wastewise stats
  wastewise stats --history
  wastewise stats --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := loadClient()
		if err != nil {
			return err
		}
		return statsCommand(cmd.Context(), cmd.OutOrStdout(), client, statsHistory)
	},
}

// alertsCmd groups the alert subcommands
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List, dismiss, and watch alerts",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active alerts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := loadClient()
		if err != nil {
			return err
		}
		return alertsListCommand(cmd.Context(), cmd.OutOrStdout(), client)
	},
}

var alertsDismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss an alert",
	Long: `Dismiss an alert by the id shown in 'wastewise alerts list'.

Examples:
  wastewise alerts dismiss 42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := loadClient()
		if err != nil {
			return err
		}
		return alertsDismissCommand(cmd.Context(), cmd.OutOrStdout(), client, api.AlertID(args[0]))
	},
}

var alertsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print new alerts as they arrive",
	Long: `Poll the backend and print one line per new alert until interrupted.
Alerts present when the watch starts are not printed.

Examples:
  wastewise alerts watch
  wastewise alerts watch --interval 5s --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkInterval(alertsWatchInterval); err != nil {
			return err
		}
		cfg, err := loadConfig(intervalOverride(alertsWatchInterval))
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		ctx, stop := interruptContext(cmd.Context())
		defer stop()
		return alertsWatchCommand(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), client, watchOptions{
			Interval: cfg.Poll.Interval,
			Renotify: cfg.Notify.RenotifyReappeared,
		})
	},
}

// settingsCmd groups the settings subcommands
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change notification settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := loadClient()
		if err != nil {
			return err
		}
		return settingsShowCommand(cmd.Context(), cmd.OutOrStdout(), client, settingsShowYAML)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change notification channels and thresholds",
	Long: `Load the saved settings, apply the given changes, and save them.
Unspecified settings keep their current values.

Examples:
  wastewise settings set --sms on --email off
  wastewise settings set --capacity 85
  wastewise settings set --temperature 90.5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := settingsSetFlags
		opts.capacitySet = cmd.Flags().Changed("capacity")
		opts.temperatureSet = cmd.Flags().Changed("temperature")
		if err := opts.validate(); err != nil {
			return err
		}
		_, client, err := loadClient()
		if err != nil {
			return err
		}
		return settingsSetCommand(cmd.Context(), cmd.OutOrStdout(), client, opts)
	},
}

// resetBinCmd marks the bin as emptied
var resetBinCmd = &cobra.Command{
	Use:   "reset-bin",
	Short: "Reset the bin after emptying it",
	Long: `Tell the backend the bin was emptied. Asks for confirmation on a
terminal; use --yes in scripts.

Examples:
  wastewise reset-bin
  wastewise reset-bin --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := loadClient()
		if err != nil {
			return err
		}
		return resetBinCommand(cmd.Context(), cmd.OutOrStdout(), client, resetBinYes, confirmReset)
	},
}

// initCmd writes a starter config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .wastewise.yaml config file",
	Long: `Write a config file with the default settings to the current directory.

Examples:
  wastewise init
  wastewise init --api-url http://bin.local:5000/api
  wastewise init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(cmd.OutOrStdout(), ".", apiURL, initForce)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for wastewise.

Examples:
  # Bash
  wastewise completion bash > /etc/bash_completion.d/wastewise

  # Zsh
  wastewise completion zsh > "${fpath[1]}/_wastewise"

  # Fish
  wastewise completion fish > ~/.config/fish/completions/wastewise.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrInput,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// dashboard flags
	for _, c := range []*cobra.Command{rootCmd, dashboardCmd} {
		c.Flags().DurationVar(&dashboardInterval, "interval", 0, "poll interval (e.g., 10s, 1m; minimum 1s)")
		c.Flags().StringVar(&dashboardView, "view", "dashboard", "view to open: dashboard, analytics, alerts, settings")
	}

	// stats flags
	statsCmd.Flags().BoolVar(&statsHistory, "history", false, "include historical stats")

	// alerts flags
	alertsWatchCmd.Flags().DurationVar(&alertsWatchInterval, "interval", 0, "poll interval (e.g., 5s; minimum 1s)")
	alertsCmd.AddCommand(alertsListCmd, alertsDismissCmd, alertsWatchCmd)

	// settings flags
	settingsShowCmd.Flags().BoolVar(&settingsShowYAML, "yaml", false, "print settings as YAML")
	settingsSetCmd.Flags().StringVar(&settingsSetFlags.Email, "email", "", "email notifications: on|off")
	settingsSetCmd.Flags().StringVar(&settingsSetFlags.Push, "push", "", "push notifications: on|off")
	settingsSetCmd.Flags().StringVar(&settingsSetFlags.SMS, "sms", "", "SMS notifications: on|off")
	settingsSetCmd.Flags().IntVar(&settingsSetFlags.Capacity, "capacity", 0, "fill level alert threshold (percent)")
	settingsSetCmd.Flags().Float64Var(&settingsSetFlags.Temperature, "temperature", 0, "temperature alert threshold (°F)")
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)

	// reset-bin flags
	resetBinCmd.Flags().BoolVarP(&resetBinYes, "yes", "y", false, "skip the confirmation prompt")

	// init flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(resetBinCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
