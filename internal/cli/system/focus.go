package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/cli/days"
	"github.com/julianstephens/routineos/internal/tui"
)

// FocusCmd opens the focus TUI. Without a terminal it prints today's
// schedule instead.
type FocusCmd struct{}

func (c *FocusCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	if !ctx.Interactive() || !ctx.TerminalOutput() {
		return (&days.DayCmd{}).Run(ctx)
	}

	ctx.PerformAutomaticBackup()

	model := tui.NewModel(ctx.Ctx, ctx.Service, ctx.Now, ctx.Location())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithInput(ctx.In), tea.WithOutput(ctx.Out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("focus mode failed: %w", err)
	}
	return nil
}
