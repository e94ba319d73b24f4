package blocks

import (
	"fmt"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/routine"
)

// BlockDeleteCmd removes a block from the catalog. Entries already recorded
// for it stay in their days.
type BlockDeleteCmd struct {
	Slug string `arg:"" help:"Slug of the block to delete."`
}

func (c *BlockDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	block, err := ctx.Service.GetBlockBySlug(ctx.Ctx, c.Slug)
	if err != nil {
		return err
	}
	if err := ctx.Service.DeleteBlock(ctx.Ctx, block.ID); err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}
	ctx.Printf("Deleted block: %s (%s)\n", block.Label, block.Slug)
	return nil
}

type BlockMoveCmd struct {
	Slug      string `arg:"" help:"Slug of the block to move."`
	Direction string `arg:"" help:"up or down." enum:"up,down"`
}

func (c *BlockMoveCmd) Run(ctx *cli.Context) error {
	dir, err := routine.ParseDirection(c.Direction)
	if err != nil {
		return err
	}
	if err := ctx.Open(); err != nil {
		return err
	}
	block, err := ctx.Service.GetBlockBySlug(ctx.Ctx, c.Slug)
	if err != nil {
		return err
	}
	if err := ctx.Service.MoveBlock(ctx.Ctx, block.ID, dir); err != nil {
		return fmt.Errorf("failed to move block: %w", err)
	}
	ctx.Printf("Moved %s %s.\n", block.Slug, dir)
	return nil
}
