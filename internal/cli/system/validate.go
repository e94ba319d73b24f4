package system

import (
	"errors"
	"strings"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/validation"
)

// ValidateCmd reports catalog problems such as duplicate slugs or anchors
// that leave no room for the blocks between them.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	blocks, err := ctx.Service.ListBlocks(ctx.Ctx)
	if err != nil {
		return err
	}

	result := validation.New().ValidateCatalog(blocks)
	ctx.Println(strings.TrimRight(result.FormatReport(), "\n"))
	if result.HasConflicts() {
		return errors.New("catalog has conflicts")
	}
	return nil
}
