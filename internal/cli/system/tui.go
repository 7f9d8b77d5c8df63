package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habhub/internal/cli"
	"github.com/julianstephens/habhub/internal/tui"
)

type TuiCmd struct {
	Inline bool `help:"Render below the prompt instead of taking over the screen."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.Owner(context.Background())
	if err != nil {
		return err
	}
	model, err := tui.NewModel(ctx, owner)
	if err != nil {
		return err
	}

	// snapshot before the first write of the session
	ctx.PerformAutomaticBackup()

	var opts []tea.ProgramOption
	if !c.Inline {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
