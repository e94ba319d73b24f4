package blocks

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/routineos/internal/cli"
)

type BlockListCmd struct {
	JSON bool `help:"Print the catalog as JSON."`
}

func (c *BlockListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	blocks, err := ctx.Service.ListBlocks(ctx.Ctx)
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := json.MarshalIndent(blocks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	if len(blocks) == 0 {
		ctx.Println("No blocks yet. Add one with 'routineos block add' or run 'routineos init'.")
		return nil
	}

	for _, b := range blocks {
		when := cli.FormatWeekdays(b.DaysOfWeek)
		if b.IsAnchor {
			when += " at " + b.AnchorTime
		}
		flags := ""
		if !b.IsSkippable {
			flags = " required"
		}
		ctx.Printf("%s %s %-20s %-24s %3dm  %-9s p%-2d %s%s\n",
			cli.Swatch(b.Color), b.Icon, b.Slug, b.Label, b.DefaultDurationMin,
			b.Category, b.CutPriority, cli.MutedStyle.Render(when), flags)
	}
	return nil
}
