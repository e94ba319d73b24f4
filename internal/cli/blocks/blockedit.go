package blocks

import (
	"errors"
	"fmt"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/routine"
	"github.com/julianstephens/routineos/internal/utils"
)

// BlockEditCmd changes only the fields whose flags are given.
type BlockEditCmd struct {
	Slug        string   `arg:"" help:"Slug of the block to edit."`
	Label       *string  `help:"New label."`
	Rename      *string  `help:"New slug."`
	Duration    *float64 `short:"d" help:"Planned duration in minutes."`
	Days        *string  `short:"w" help:"Weekdays (e.g. mon,wed,fri, weekdays, weekends or daily)."`
	Anchor      *string  `short:"a" help:"Anchor time (HH:MM). An empty value makes the block a regular one."`
	Category    *string  `short:"c" help:"Category (anchor, sequence or flexible)."`
	Icon        *string  `help:"Icon shown next to the label."`
	Color       *string  `help:"Color as #rrggbb."`
	Skippable   *bool    `help:"Allow skipping without --force." negatable:""`
	CutPriority *float64 `short:"p" help:"Cut priority (1-99, lower is cut first)."`
}

func (c *BlockEditCmd) Validate() error {
	if c.Days != nil {
		if _, err := cli.ParseWeekdays(*c.Days); err != nil {
			return err
		}
	}
	if c.Anchor != nil && *c.Anchor != "" && !utils.ValidateTimeFormat(*c.Anchor) {
		return fmt.Errorf("invalid anchor time %q (expected HH:MM)", *c.Anchor)
	}
	if c.Category != nil {
		if _, err := models.ParseCategory(*c.Category); err != nil {
			return err
		}
	}
	return nil
}

func (c *BlockEditCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := ctx.Open(); err != nil {
		return err
	}

	block, err := ctx.Service.GetBlockBySlug(ctx.Ctx, c.Slug)
	if err != nil {
		return err
	}

	in := routine.InputFromBlock(block)
	changed := c.apply(&in)
	if !changed {
		ctx.Println("No changes specified. Use flags such as --duration or --label to edit the block.")
		return nil
	}

	updated, found, err := ctx.Service.UpdateBlock(ctx.Ctx, block.ID, in)
	if err != nil {
		return fmt.Errorf("failed to update block: %w", err)
	}
	if !found {
		return errors.New("block was deleted while editing")
	}

	ctx.Printf("Updated block: %s %s (%s)\n", updated.Icon, updated.Label, updated.Slug)
	return nil
}

func (c *BlockEditCmd) apply(in *routine.SaveBlockInput) bool {
	changed := false
	set := func(ok bool, fn func()) {
		if ok {
			fn()
			changed = true
		}
	}

	set(c.Label != nil, func() { in.Label = *c.Label })
	set(c.Rename != nil, func() { in.Slug = *c.Rename })
	set(c.Duration != nil, func() { in.DefaultDurationMin = *c.Duration })
	set(c.Days != nil, func() {
		days, _ := cli.ParseWeekdays(*c.Days)
		in.DaysOfWeek = days
	})
	set(c.Anchor != nil, func() {
		in.IsAnchor = *c.Anchor != ""
		in.AnchorTime = *c.Anchor
		if !in.IsAnchor && in.Category == models.CategoryAnchor {
			in.Category = models.CategorySequence
		}
	})
	set(c.Category != nil, func() { in.Category = models.BlockCategory(*c.Category) })
	set(c.Icon != nil, func() { in.Icon = *c.Icon })
	set(c.Color != nil, func() { in.Color = *c.Color })
	set(c.Skippable != nil, func() { in.IsSkippable = *c.Skippable })
	set(c.CutPriority != nil, func() { in.CutPriority = *c.CutPriority })
	return changed
}
