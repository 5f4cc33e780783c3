package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/errors"
	"github.com/wastewise/wastewise/internal/ui"
)

// confirmFunc asks the user whether to go ahead. ok is false when no one
// can be asked.
type confirmFunc func(title string) (proceed, ok bool)

// binResetter is the part of the API client reset-bin uses.
type binResetter interface {
	ResetBin(ctx context.Context) (api.Ack, error)
}

// confirmReset prompts with a huh form when stdin is a terminal.
func confirmReset(title string) (bool, bool) {
	if machineMode || !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, false
	}
	var proceed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Reset").
				Negative("Cancel").
				Value(&proceed),
		),
	)
	if err := form.Run(); err != nil {
		return false, true
	}
	return proceed, true
}

func resetBinCommand(ctx context.Context, w io.Writer, client binResetter, yes bool, confirm confirmFunc) error {
	if !yes {
		proceed, ok := confirm("Reset the bin? Fill level and composition go back to zero.")
		if !ok {
			return errors.New(errors.ErrInput,
				"Refusing to reset the bin without confirmation",
				"Run it in a terminal to confirm, or pass --yes")
		}
		if !proceed {
			return emit(w, map[string]interface{}{"reset": false}, func() error {
				fmt.Fprintln(w, ui.MutedStyle.Render("Reset cancelled"))
				return nil
			})
		}
	}

	ack, err := client.ResetBin(ctx)
	if err != nil {
		return err
	}
	return emit(w, map[string]interface{}{"reset": true, "message": ack.Message}, func() error {
		msg := ack.Message
		if msg == "" {
			msg = "Bin reset"
		}
		fmt.Fprintln(w, ui.SuccessStyle.Render(ui.SymbolSuccess+" "+msg))
		return nil
	})
}
