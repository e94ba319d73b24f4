package optimize

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/optimizer"
	"github.com/julianstephens/routineos/internal/routine"
	"github.com/julianstephens/routineos/internal/storage"
)

type OptimizeCmd struct {
	Days        int  `help:"Number of recent days to analyze." default:"14"`
	Interactive bool `help:"Review each suggestion and choose whether to apply it."`
	AutoApply   bool `help:"Apply every suggestion without asking."`
}

func (c *OptimizeCmd) Validate() error {
	if c.Days < 1 {
		return errors.New("--days must be at least 1")
	}
	if c.Interactive && c.AutoApply {
		return errors.New("use either --interactive or --auto-apply")
	}
	return nil
}

func (c *OptimizeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	from, to := ctx.DateRange(c.Days)
	analyzer := optimizer.NewFeedbackAnalyzer(ctx.Store)
	optimizations, err := analyzer.SuggestOptimizations(ctx.Ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to analyze blocks: %w", err)
	}

	if len(optimizations) == 0 {
		ctx.Printf("No changes suggested for %s to %s.\n", from, to)
		return nil
	}

	ctx.Printf("%d suggestion(s) from %s to %s:\n\n", len(optimizations), from, to)
	for i, opt := range optimizations {
		displayOptimization(ctx, i+1, opt)
	}

	switch {
	case c.AutoApply:
		applied := 0
		for _, opt := range optimizations {
			if err := applyOptimization(ctx, opt); err != nil {
				ctx.Printf("  %s %s: %v\n", cli.ErrorStyle.Render("✗"), opt.BlockLabel, err)
				continue
			}
			applied++
		}
		ctx.Printf("Applied %d/%d suggestion(s).\n", applied, len(optimizations))
	case c.Interactive:
		return c.runInteractive(ctx, optimizations)
	default:
		ctx.Println(cli.MutedStyle.Render("Use --interactive to review them or --auto-apply to apply them all."))
	}
	return nil
}

func (c *OptimizeCmd) runInteractive(ctx *cli.Context, optimizations []optimizer.Optimization) error {
	if !ctx.Interactive() {
		return errors.New("--interactive needs a terminal")
	}

	applied, skipped := 0, 0
	for i, opt := range optimizations {
		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(fmt.Sprintf("[%d/%d] %s: %s", i+1, len(optimizations), opt.BlockLabel, describe(opt))).
					Options(
						huh.NewOption("Apply", "apply"),
						huh.NewOption("Skip", "skip"),
						huh.NewOption("Skip remaining", "skip_all"),
					).
					Value(&choice),
			),
		).WithInput(ctx.In).WithOutput(ctx.Out)

		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}

		if choice == "skip_all" {
			skipped += len(optimizations) - i
			break
		}
		if choice == "skip" {
			skipped++
			continue
		}
		if err := applyOptimization(ctx, opt); err != nil {
			ctx.Printf("  %s %v\n", cli.ErrorStyle.Render("✗"), err)
			continue
		}
		applied++
	}

	ctx.Printf("Done: %d applied, %d skipped.\n", applied, skipped)
	return nil
}

func describe(opt optimizer.Optimization) string {
	switch opt.Type {
	case optimizer.OptimizationReduceDuration, optimizer.OptimizationIncreaseDuration:
		return fmt.Sprintf("duration %dm → %dm", opt.CurrentValue, opt.SuggestedValue)
	case optimizer.OptimizationLowerPriority:
		return fmt.Sprintf("cut priority %d → %d", opt.CurrentValue, opt.SuggestedValue)
	case optimizer.OptimizationRemoveBlock:
		return "remove from the routine"
	}
	return string(opt.Type)
}

func displayOptimization(ctx *cli.Context, num int, opt optimizer.Optimization) {
	ctx.Printf("%d. %s %s\n", num, cli.HeaderStyle.Render(opt.BlockLabel), cli.MutedStyle.Render("("+opt.BlockSlug+")"))
	ctx.Printf("   %s\n", describe(opt))
	ctx.Printf("   %s\n\n", opt.Reason)
}

// applyOptimization writes one suggestion back to the catalog.
func applyOptimization(ctx *cli.Context, opt optimizer.Optimization) error {
	if opt.Type == optimizer.OptimizationRemoveBlock {
		return ctx.Service.DeleteBlock(ctx.Ctx, opt.BlockID)
	}

	block, err := ctx.Store.GetBlock(ctx.Ctx, opt.BlockID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("block %s no longer exists", opt.BlockSlug)
	}
	if err != nil {
		return storage.Wrap("loading block", err)
	}

	in := routine.InputFromBlock(block)
	switch opt.Type {
	case optimizer.OptimizationReduceDuration, optimizer.OptimizationIncreaseDuration:
		in.DefaultDurationMin = float64(opt.SuggestedValue)
	case optimizer.OptimizationLowerPriority:
		in.CutPriority = float64(opt.SuggestedValue)
	default:
		return fmt.Errorf("unknown optimization type %q", opt.Type)
	}

	_, _, err = ctx.Service.UpdateBlock(ctx.Ctx, block.ID, in)
	return err
}
