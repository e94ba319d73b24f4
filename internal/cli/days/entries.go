package days

import (
	"errors"
	"fmt"

	"github.com/julianstephens/routineos/internal/checkin"
	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/routine"
)

// EntryArgs selects one entry of a day.
type EntryArgs struct {
	Selector string `arg:"" help:"Entry ID or block slug."`
	Date     string `help:"Day the entry belongs to. Defaults to today."`
}

// resolve opens the store and finds the selected entry, creating the day if
// needed.
func (a EntryArgs) resolve(ctx *cli.Context) (models.DayItem, error) {
	if err := ctx.Open(); err != nil {
		return models.DayItem{}, err
	}
	date, err := ctx.ResolveDate(a.Date)
	if err != nil {
		return models.DayItem{}, err
	}
	view, err := ctx.Service.GetOrCreateDayView(ctx.Ctx, date)
	if err != nil {
		return models.DayItem{}, err
	}
	item, ok := routine.FindEntry(view, a.Selector)
	if !ok {
		return models.DayItem{}, fmt.Errorf("no entry %q on %s", a.Selector, date)
	}
	return item, nil
}

func transitionError(item models.DayItem, err error) error {
	if errors.Is(err, models.ErrInvalidTransition) {
		return fmt.Errorf("%s is %s: %w", item.Block.Label, item.Entry.Status(), err)
	}
	return err
}

type StartCmd struct {
	EntryArgs
}

func (c *StartCmd) Run(ctx *cli.Context) error {
	item, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Service.Start(ctx.Ctx, item.Entry.ID); err != nil {
		return transitionError(item, err)
	}
	ctx.Printf("%s Started %s %s\n", cli.StatusMark(models.StatusActive), item.Block.Icon, item.Block.Label)
	return nil
}

type DoneCmd struct {
	EntryArgs

	Duration    *float64 `help:"Minutes spent. Defaults to the time since the entry was started."`
	Notes       string   `help:"Free text notes. Ignored when a check-in is recorded."`
	Checkin     bool     `help:"Answer the completion check-in interactively."`
	Mood        string   `help:"Record a check-in with this mood (up or down)."`
	TimeWrong   bool     `help:"With --mood: the planned time was not right."`
	StartedLate bool     `help:"With --mood: the task did not start on time."`
	EndedLate   bool     `help:"With --mood: the task did not end on time."`
}

func (c *DoneCmd) Validate() error {
	switch checkin.Mood(c.Mood) {
	case "", checkin.MoodUp, checkin.MoodDown:
	default:
		return fmt.Errorf("invalid mood %q (expected up or down)", c.Mood)
	}
	if c.Duration != nil && *c.Duration < 0 {
		return errors.New("--duration cannot be negative")
	}
	return nil
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	item, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	notes, err := c.notes(ctx)
	if err != nil {
		return err
	}

	if err := ctx.Service.Complete(ctx.Ctx, item.Entry.ID, c.Duration, notes); err != nil {
		return transitionError(item, err)
	}
	ctx.Printf("%s Completed %s %s\n", cli.StatusMark(models.StatusCompleted), item.Block.Icon, item.Block.Label)
	return nil
}

// notes builds the entry notes from the check-in flags, an interactive form
// or the free text flag, in that order.
func (c *DoneCmd) notes(ctx *cli.Context) (*string, error) {
	if c.Mood != "" {
		s := checkin.Serialize(checkin.CheckIn{
			Mood:           checkin.Mood(c.Mood),
			TimeWasCorrect: !c.TimeWrong,
			StartedOnTime:  !c.StartedLate,
			EndedOnTime:    !c.EndedLate,
		})
		return &s, nil
	}

	ask := c.Checkin
	if !ask && ctx.Interactive() {
		settings, err := ctx.Service.Settings(ctx.Ctx)
		if err != nil {
			return nil, err
		}
		ask = settings.AskCompletionCheckIn
	}
	if ask {
		if !ctx.Interactive() {
			return nil, errors.New("--checkin needs a terminal; use --mood and related flags instead")
		}
		ci, err := PromptCheckIn(ctx)
		if err != nil {
			return nil, err
		}
		s := checkin.Serialize(ci)
		return &s, nil
	}

	if c.Notes != "" {
		return &c.Notes, nil
	}
	return nil, nil
}

type SkipCmd struct {
	EntryArgs
	Force bool `help:"Skip a block that is not marked skippable, or one already completed."`
}

func (c *SkipCmd) Run(ctx *cli.Context) error {
	item, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	if !item.Block.IsSkippable && !c.Force {
		return fmt.Errorf("%s is not skippable; use --force to skip it anyway", item.Block.Label)
	}
	skip := ctx.Service.Skip
	if item.Entry.Status() == models.StatusCompleted {
		if !c.Force {
			return fmt.Errorf("%s is already completed; use --force to skip it instead", item.Block.Label)
		}
		skip = ctx.Service.ForceSkip
	}

	if err := skip(ctx.Ctx, item.Entry.ID); err != nil {
		return transitionError(item, err)
	}
	ctx.Printf("%s Skipped %s %s\n", cli.StatusMark(models.StatusSkipped), item.Block.Icon, item.Block.Label)
	return nil
}

// CancelCmd stops the active entry without completing it.
type CancelCmd struct {
	EntryArgs
}

func (c *CancelCmd) Run(ctx *cli.Context) error {
	item, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if item.Entry.Status() != models.StatusActive {
		return fmt.Errorf("%s is not in progress", item.Block.Label)
	}
	if err := ctx.Service.Reset(ctx.Ctx, item.Entry.ID); err != nil {
		return err
	}
	ctx.Printf("%s Stopped %s %s\n", cli.StatusMark(models.StatusPending), item.Block.Icon, item.Block.Label)
	return nil
}

// UndoCmd returns a completed or skipped entry to pending.
type UndoCmd struct {
	EntryArgs
}

func (c *UndoCmd) Run(ctx *cli.Context) error {
	item, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	switch item.Entry.Status() {
	case models.StatusCompleted, models.StatusSkipped:
	default:
		return fmt.Errorf("%s is %s; nothing to undo", item.Block.Label, item.Entry.Status())
	}
	if err := ctx.Service.Reset(ctx.Ctx, item.Entry.ID); err != nil {
		return err
	}
	ctx.Printf("%s Reopened %s %s\n", cli.StatusMark(models.StatusPending), item.Block.Icon, item.Block.Label)
	return nil
}
