package days

import (
	"fmt"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/optimizer"
)

// FeedbackCmd compares what happened on stored days with the plan. It never
// creates a day.
type FeedbackCmd struct {
	Date string `arg:"" optional:"" help:"Day to analyze. Defaults to today."`
	Days int    `help:"Analyze the last N days instead of a single day." default:"0"`
	JSON bool   `help:"Print the analysis as JSON."`
}

func (c *FeedbackCmd) Validate() error {
	if c.Days < 0 {
		return fmt.Errorf("--days must be positive")
	}
	if c.Days > 0 && c.Date != "" {
		return fmt.Errorf("use either a date or --days, not both")
	}
	return nil
}

func (c *FeedbackCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	analyzer := optimizer.NewFeedbackAnalyzer(ctx.Store)

	if c.Days > 0 {
		from, to := ctx.DateRange(c.Days)
		report, err := analyzer.AnalyzeRange(ctx.Ctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to analyze feedback: %w", err)
		}
		if c.JSON {
			return printJSON(ctx, report)
		}
		ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("Feedback %s to %s (%d days recorded)", from, to, len(report.Days))))
		for _, d := range report.Days {
			ctx.Printf("  %s  %s\n", d.Date, countsLine(d.Summary))
		}
		ctx.Println()
		printSummary(ctx, report.Overall, false)
		return nil
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	summary, found, err := analyzer.AnalyzeDay(ctx.Ctx, date)
	if err != nil {
		return fmt.Errorf("failed to analyze feedback: %w", err)
	}
	if !found {
		ctx.Printf("No record for %s.\n", date)
		return nil
	}
	if c.JSON {
		return printJSON(ctx, summary)
	}
	ctx.Println(cli.HeaderStyle.Render("Feedback for " + date))
	printSummary(ctx, summary, true)
	return nil
}

func countsLine(s optimizer.TaskFeedbackSummary) string {
	return fmt.Sprintf("%d tasks: %d on target, %d too fast, %d too slow, %d not done, %d without data",
		s.Total, s.Correct, s.TooFast, s.TooSlow, s.NotDone, s.InsufficientData)
}

func printSummary(ctx *cli.Context, s optimizer.TaskFeedbackSummary, items bool) {
	ctx.Println("  " + countsLine(s))
	if s.Total == 0 {
		return
	}

	if items {
		ctx.Println()
		for _, fb := range s.Items {
			actual := "-"
			if fb.ActualMin != nil {
				actual = fmt.Sprintf("%dm", *fb.ActualMin)
			}
			ctx.Printf("  %-10s %-24s planned %3dm, actual %5s  %s\n",
				verdictLabel(fb.Verdict), fb.Label, fb.ExpectedMin, actual, cli.MutedStyle.Render(fb.Problem))
		}
	}

	ctx.Println()
	ctx.Println("  Most common:")
	for i, p := range s.Problems {
		if i == 3 {
			break
		}
		ctx.Printf("    %dx %s\n", p.Count, p.Label)
	}
}

func verdictLabel(v optimizer.Verdict) string {
	switch v {
	case optimizer.VerdictCorrect:
		return cli.SuccessStyle.Render(string(v))
	case optimizer.VerdictTooFast, optimizer.VerdictTooSlow:
		return cli.WarnStyle.Render(string(v))
	case optimizer.VerdictNotDone:
		return cli.ErrorStyle.Render(string(v))
	}
	return cli.MutedStyle.Render(string(v))
}
