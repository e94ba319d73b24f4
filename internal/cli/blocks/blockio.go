package blocks

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/seed"
)

// BlockExportCmd writes the catalog as YAML.
type BlockExportCmd struct {
	Output string `short:"o" help:"File to write. Defaults to standard output." type:"path"`
}

func (c *BlockExportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	blocks, err := ctx.Service.ListBlocks(ctx.Ctx)
	if err != nil {
		return err
	}

	var w io.Writer = ctx.Out
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := seed.Encode(w, blocks); err != nil {
		return err
	}
	if c.Output != "" {
		ctx.Printf("Exported %d block(s) to %s\n", len(blocks), c.Output)
	}
	return nil
}

// BlockImportCmd reads a YAML catalog written by export or by hand.
type BlockImportCmd struct {
	File    string `arg:"" help:"Catalog file to import." type:"existingfile"`
	Replace bool   `help:"Delete the current catalog first instead of appending."`
}

func (c *BlockImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	blocks, err := seed.Decode(f)
	if err != nil {
		return err
	}
	if err := ctx.Open(); err != nil {
		return err
	}
	if c.Replace {
		ctx.PerformAutomaticBackup()
	}

	n, err := ctx.Service.ImportBlocks(ctx.Ctx, blocks, c.Replace)
	if err != nil {
		return fmt.Errorf("failed to import blocks: %w", err)
	}
	ctx.Printf("Imported %d block(s).\n", n)
	return nil
}
