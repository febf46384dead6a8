package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/tenk/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	p := tea.NewProgram(tui.NewApp(ctx.Tracker, ctx.History), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	// Quitting the TUI pauses whatever was running.
	_, _, err := ctx.Tracker.Shutdown()
	return err
}
