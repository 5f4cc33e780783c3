package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wastewise/wastewise/internal/config"
	"github.com/wastewise/wastewise/internal/dashboard"
	"github.com/wastewise/wastewise/internal/errors"
	"github.com/wastewise/wastewise/internal/util"
)

// debugLogFile receives log output while the dashboard owns the screen.
const debugLogFile = "wastewise-debug.log"

func dashboardCommand(ctx context.Context, interval time.Duration, view string) error {
	if err := checkInterval(interval); err != nil {
		return err
	}
	initial, ok := dashboard.ParseView(view)
	if !ok {
		names := dashboard.ViewNames()
		return errors.New(errors.ErrInput,
			fmt.Sprintf("Unknown view %q", view),
			util.DidYouMean(view, names, "Choose one of: "+util.JoinOrNone(names)))
	}

	cfg, err := loadConfig(config.Overrides{Interval: interval})
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	restore, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restore()

	return dashboard.Run(ctx, client, dashboard.Options{
		Interval:       cfg.Poll.Interval,
		StatusDuration: cfg.UI.StatusDuration,
		ToastDuration:  cfg.UI.ToastDuration,
		Renotify:       cfg.Notify.RenotifyReappeared,
		InitialView:    initial,
		Logger:         componentLogger("[dashboard]"),
	})
}

// redirectLogs keeps log output off the screen while the TUI runs. With
// --verbose it goes to a file in the temp dir, otherwise it is dropped.
func redirectLogs() (func(), error) {
	if verbose {
		path := filepath.Join(os.TempDir(), debugLogFile)
		f, err := tea.LogToFile(path, "wastewise")
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't open debug log "+path,
				"Check that the temp directory is writable")
		}
		return func() {
			_ = f.Close()
			log.SetOutput(os.Stderr)
			fmt.Fprintf(os.Stderr, "Debug log written to %s\n", path)
		}, nil
	}
	log.SetOutput(io.Discard)
	return func() { log.SetOutput(os.Stderr) }, nil
}

// checkInterval rejects poll intervals below the minimum. Zero means unset.
func checkInterval(d time.Duration) error {
	if d != 0 && d < config.MinPollInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Poll interval %s is too short", d),
			fmt.Sprintf("Use at least %s, e.g. --interval 10s", config.MinPollInterval))
	}
	return nil
}

// intervalOverride turns an --interval flag into config overrides.
func intervalOverride(d time.Duration) config.Overrides {
	return config.Overrides{Interval: d}
}

// interruptContext is cancelled on Ctrl+C or SIGTERM.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
