package days

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/routine"
	"github.com/julianstephens/routineos/internal/utils"
)

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today, yesterday or tomorrow). Defaults to today."`
	JSON bool   `help:"Print the schedule as JSON."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	sched, err := ctx.Service.DaySchedule(ctx.Ctx, date)
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(ctx, scheduleJSON(sched))
	}
	printSchedule(ctx, date, sched)
	return nil
}

func printSchedule(ctx *cli.Context, date string, sched routine.Schedule) {
	header := date
	if wd, err := utils.Weekday(date); err == nil {
		header = fmt.Sprintf("%s, %s", wd, date)
	}

	p := sched.Progress
	summary := fmt.Sprintf("%d/%d done", p.Completed, p.Total)
	if p.Skipped > 0 {
		summary += fmt.Sprintf(" · %d skipped", p.Skipped)
	}
	if sched.EndTime != "" {
		summary += " · ends " + sched.EndTime
	}
	ctx.Println(cli.HeaderStyle.Render(header) + "  " + cli.MutedStyle.Render(summary))

	if len(sched.View.Items) == 0 {
		ctx.Println(cli.MutedStyle.Render("  Nothing scheduled. Add blocks with 'routineos block add'."))
		return
	}

	width := 0
	for _, item := range sched.View.Items {
		width = max(width, len([]rune(item.Block.Label)))
	}
	for _, item := range sched.View.Items {
		label := item.Block.Label + strings.Repeat(" ", width-len([]rune(item.Block.Label)))
		line := fmt.Sprintf("  %5s  %s %s %s  %s",
			sched.Times[item.Entry.ID],
			cli.StatusMark(item.Entry.Status()),
			item.Block.Icon,
			label,
			durationLabel(item),
		)
		if item.Entry.ID == sched.CurrentEntryID {
			line += "  " + cli.WarnStyle.Render("← now")
		}
		ctx.Println(line)
	}
}

func durationLabel(item models.DayItem) string {
	if d, ok := item.Entry.DurationMin(); ok {
		return fmt.Sprintf("%dm (planned %dm)", d, item.Block.DefaultDurationMin)
	}
	return fmt.Sprintf("%dm", item.Block.DefaultDurationMin)
}

type scheduledItem struct {
	Time  string            `json:"time"`
	Block models.Block      `json:"block"`
	Entry models.BlockEntry `json:"entry"`
}

type scheduleOutput struct {
	Date           string                  `json:"date"`
	EndTime        string                  `json:"end_time,omitempty"`
	CurrentEntryID string                  `json:"current_entry_id,omitempty"`
	Progress       models.ProgressSnapshot `json:"progress"`
	Items          []scheduledItem         `json:"items"`
}

func scheduleJSON(sched routine.Schedule) scheduleOutput {
	out := scheduleOutput{
		Date:           sched.View.DayLog.Date,
		EndTime:        sched.EndTime,
		CurrentEntryID: sched.CurrentEntryID,
		Progress:       sched.Progress,
		Items:          make([]scheduledItem, len(sched.View.Items)),
	}
	for i, item := range sched.View.Items {
		out.Items[i] = scheduledItem{Time: sched.Times[item.Entry.ID], Block: item.Block, Entry: item.Entry}
	}
	return out
}

func printJSON(ctx *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	ctx.Println(string(data))
	return nil
}
