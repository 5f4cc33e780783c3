package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/wastewise/wastewise/internal/config"
	"github.com/wastewise/wastewise/internal/ui"
)

// initCommand writes a default config into dir. A non-empty baseURL
// replaces the default backend address.
func initCommand(w io.Writer, dir, baseURL string, force bool) error {
	cfg := config.DefaultConfig()
	config.Overrides{APIURL: baseURL}.Apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	path := filepath.Join(dir, config.ConfigFileName)
	if err := config.Write(path, cfg, force); err != nil {
		return err
	}

	return emit(w, map[string]interface{}{"path": path, "api_url": cfg.API.BaseURL}, func() error {
		fmt.Fprintln(w, ui.SuccessStyle.Render(ui.SymbolSuccess+" Created "+path))
		fmt.Fprintln(w, ui.MutedStyle.Render("  Backend: "+cfg.API.BaseURL))
		return nil
	})
}
