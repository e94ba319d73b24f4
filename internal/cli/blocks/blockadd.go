package blocks

import (
	"fmt"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/routine"
	"github.com/julianstephens/routineos/internal/utils"
)

type BlockAddCmd struct {
	Label       string  `arg:"" help:"Block label."`
	Slug        string  `help:"Short name used to select the block. Derived from the label when empty."`
	Duration    float64 `short:"d" help:"Planned duration in minutes." default:"15"`
	Days        string  `short:"w" help:"Weekdays (e.g. mon,wed,fri, weekdays, weekends or daily)." default:"daily"`
	Anchor      string  `short:"a" help:"Make this an anchor at a fixed time (HH:MM)."`
	Category    string  `short:"c" help:"Category (anchor, sequence or flexible)."`
	Icon        string  `help:"Icon shown next to the label."`
	Color       string  `help:"Color as #rrggbb."`
	Skippable   bool    `help:"Allow skipping without --force." default:"true" negatable:""`
	CutPriority float64 `short:"p" help:"Cut priority (1-99, lower is cut first)." default:"50"`

	days []int
}

func (c *BlockAddCmd) Validate() error {
	days, err := cli.ParseWeekdays(c.Days)
	if err != nil {
		return err
	}
	c.days = days
	if c.Anchor != "" && !utils.ValidateTimeFormat(c.Anchor) {
		return fmt.Errorf("invalid anchor time %q (expected HH:MM)", c.Anchor)
	}
	if c.Category != "" {
		if _, err := models.ParseCategory(c.Category); err != nil {
			return err
		}
	}
	return nil
}

func (c *BlockAddCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := ctx.Open(); err != nil {
		return err
	}

	slug := c.Slug
	if slug == "" {
		slug = c.Label
	}
	b, err := ctx.Service.CreateBlock(ctx.Ctx, routine.SaveBlockInput{
		Slug:               slug,
		Label:              c.Label,
		Icon:               c.Icon,
		Color:              c.Color,
		Category:           models.BlockCategory(c.Category),
		DefaultDurationMin: c.Duration,
		DaysOfWeek:         c.days,
		IsAnchor:           c.Anchor != "",
		AnchorTime:         c.Anchor,
		IsSkippable:        c.Skippable,
		CutPriority:        c.CutPriority,
	})
	if err != nil {
		return fmt.Errorf("failed to add block: %w", err)
	}

	ctx.Printf("Added block: %s %s (%s)\n", b.Icon, b.Label, b.Slug)
	return nil
}
