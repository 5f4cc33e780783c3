package dashboard

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/wastewise/wastewise/internal/errors"
)

// Run starts the full-screen dashboard and blocks until the user quits or
// ctx is cancelled. Pollers are stopped before Run returns.
func Run(ctx context.Context, backend Backend, opts Options, programOpts ...tea.ProgramOption) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrInput,
			"The dashboard needs an interactive terminal",
			"Use 'wastewise stats' or 'wastewise alerts watch' for scripted output.")
	}

	bridge := NewBridge(nil)
	model := NewModel(backend, bridge, opts)

	popts := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}, programOpts...)
	program := tea.NewProgram(model, popts...)

	// Attach before Run so the first poll results have somewhere to go.
	bridge.Attach(program)

	final, err := program.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		model.Close()
	}
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
