package days

import (
	"github.com/charmbracelet/bubbles/progress"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/utils"
)

const barWidth = 30

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	today := ctx.Today()
	sched, err := ctx.Service.DaySchedule(ctx.Ctx, today)
	if err != nil {
		return err
	}

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage())

	p := sched.Progress
	done := 0.0
	if p.Total > 0 {
		done = float64(p.Completed+p.Skipped) / float64(p.Total)
	}
	ctx.Println(cli.HeaderStyle.Render("Today " + today))
	ctx.Printf("  Routine  %s %3.0f%%  %d done, %d skipped, %d left\n",
		bar.ViewAs(done), done*100, p.Completed, p.Skipped, p.Remaining())

	if item, ok := sched.Current(); ok {
		ctx.Printf("  Now      %s %s (since %s)\n", item.Block.Icon, item.Block.Label, startedLabel(ctx, item.Entry))
	} else {
		ctx.Println("  Now      " + cli.MutedStyle.Render("nothing in progress"))
	}
	if sched.EndTime != "" {
		ctx.Printf("  Ends     %s\n", sched.EndTime)
	}

	tp := utils.CalculateTimeProgress(ctx.Now().In(ctx.Location()))
	ctx.Println()
	for _, row := range []struct {
		name string
		pct  float64
	}{
		{"Day", tp.Day},
		{"Week", tp.Week},
		{"Month", tp.Month},
		{"Year", tp.Year},
	} {
		ctx.Printf("  %-7s  %s %5.1f%%\n", row.name, bar.ViewAs(row.pct/100), row.pct)
	}
	return nil
}

func startedLabel(ctx *cli.Context, entry models.BlockEntry) string {
	started, ok := entry.StartedAt()
	if !ok {
		return "-"
	}
	return started.In(ctx.Location()).Format(constants.TimeFormat)
}
