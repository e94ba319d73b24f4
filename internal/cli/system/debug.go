package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/routineos/internal/cli"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show database path."`
	DumpDay      *DebugDumpDayCmd      `cmd:"" help:"Dump a stored day as JSON."`
	DumpBlock    *DebugDumpBlockCmd    `cmd:"" help:"Dump a block as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

// DebugDumpDayCmd never creates the day it is asked for.
type DebugDumpDayCmd struct {
	Date string `arg:"" optional:"" help:"Date to dump (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	date, err := ctx.ResolveDate(cmd.Date)
	if err != nil {
		return err
	}
	view, found, err := ctx.Service.FindDayView(ctx.Ctx, date)
	if err != nil {
		return fmt.Errorf("failed to get day: %w", err)
	}
	if !found {
		return fmt.Errorf("no day record for %s", date)
	}
	return printJSON(ctx, view)
}

type DebugDumpBlockCmd struct {
	Slug string `arg:"" help:"Slug of the block to dump."`
}

func (cmd *DebugDumpBlockCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	block, err := ctx.Service.GetBlockBySlug(ctx.Ctx, cmd.Slug)
	if err != nil {
		return err
	}
	return printJSON(ctx, block)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	settings, err := ctx.Service.Settings(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}
