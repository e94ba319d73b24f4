package days

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/routineos/internal/checkin"
	apperrors "github.com/julianstephens/routineos/internal/errors"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/routine"
	"github.com/julianstephens/routineos/internal/testutil"
)

// Monday
var monday = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) *testutil.Env {
	t.Helper()
	env := testutil.NewEnv(t, monday)
	env.AddBlock(t, "walk", 30)
	env.AddBlock(t, "read", 20, func(in *routine.SaveBlockInput) { in.IsSkippable = false })
	return env
}

func entry(t *testing.T, env *testutil.Env, slug string) models.BlockEntry {
	t.Helper()
	view, err := env.Ctx.Service.GetOrCreateDayView(env.Ctx.Ctx, "2026-03-02")
	require.NoError(t, err)
	item, ok := routine.FindEntry(view, slug)
	require.True(t, ok, slug)
	return item.Entry
}

func args(slug string) EntryArgs { return EntryArgs{Selector: slug} }

func TestDayCmd(t *testing.T) {
	env := setup(t)

	require.NoError(t, (&DayCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Monday, 2026-03-02")
	assert.Contains(t, out, "0/2 done")
	assert.Contains(t, out, "ends 06:50")
	assert.Regexp(t, `06:00 .*Walk`, out)
	assert.Regexp(t, `06:30 .*Read`, out)

	require.NoError(t, (&DayCmd{Date: "2026-03-02", JSON: true}).Run(env.Ctx))
	var got scheduleOutput
	require.NoError(t, json.Unmarshal([]byte(env.Output()), &got))
	assert.Equal(t, "2026-03-02", got.Date)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "06:00", got.Items[0].Time)
	assert.Equal(t, "walk", got.Items[0].Block.Slug)
	assert.Equal(t, models.StatusPending, got.Items[0].Entry.Status())

	assert.Error(t, (&DayCmd{Date: "03/02/2026"}).Run(env.Ctx))
}

func TestDayCmd_Empty(t *testing.T) {
	env := testutil.NewEnv(t, monday)
	require.NoError(t, (&DayCmd{Date: "tomorrow"}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Tuesday, 2026-03-03")
	assert.Contains(t, out, "Nothing scheduled")
}

func TestStartAndDone(t *testing.T) {
	env := setup(t)

	require.NoError(t, (&StartCmd{args("walk")}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "Started")
	assert.Equal(t, models.StatusActive, entry(t, env, "walk").Status())

	// starting another entry stops the first
	require.NoError(t, (&StartCmd{args("read")}).Run(env.Ctx))
	assert.Equal(t, models.StatusPending, entry(t, env, "walk").Status())
	require.NoError(t, (&StartCmd{args("walk")}).Run(env.Ctx))

	env.Clock.Advance(25 * time.Minute)
	require.NoError(t, (&DoneCmd{EntryArgs: args("walk"), Notes: "nice"}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "Completed")

	walk := entry(t, env, "walk")
	d, ok := walk.DurationMin()
	require.True(t, ok)
	assert.Equal(t, 25, d)
	assert.Equal(t, "nice", walk.Notes())

	err := (&StartCmd{args("walk")}).Run(env.Ctx)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestDoneCmd_CheckInFlags(t *testing.T) {
	env := setup(t)
	duration := 12.0
	cmd := &DoneCmd{EntryArgs: args("read"), Duration: &duration, Mood: "down", StartedLate: true, Notes: "ignored"}
	require.NoError(t, cmd.Validate())
	require.NoError(t, cmd.Run(env.Ctx))

	read := entry(t, env, "read")
	d, _ := read.DurationMin()
	assert.Equal(t, 12, d)
	ci, ok := checkin.Parse(read.Notes())
	require.True(t, ok)
	assert.Equal(t, checkin.CheckIn{Mood: checkin.MoodDown, TimeWasCorrect: true, StartedOnTime: false, EndedOnTime: true}, ci)
}

func TestDoneCmd_Validate(t *testing.T) {
	assert.Error(t, (&DoneCmd{Mood: "meh"}).Validate())
	negative := -3.0
	assert.Error(t, (&DoneCmd{Duration: &negative}).Validate())
	assert.NoError(t, (&DoneCmd{}).Validate())
}

func TestDoneCmd_CheckInNeedsTerminal(t *testing.T) {
	env := setup(t)
	err := (&DoneCmd{EntryArgs: args("walk"), Checkin: true}).Run(env.Ctx)
	assert.ErrorContains(t, err, "terminal")
	assert.Equal(t, models.StatusPending, entry(t, env, "walk").Status())
}

func TestSkipCmd(t *testing.T) {
	env := setup(t)

	err := (&SkipCmd{EntryArgs: args("read")}).Run(env.Ctx)
	assert.ErrorContains(t, err, "not skippable")
	require.NoError(t, (&SkipCmd{EntryArgs: args("read"), Force: true}).Run(env.Ctx))
	assert.Equal(t, models.StatusSkipped, entry(t, env, "read").Status())

	require.NoError(t, (&DoneCmd{EntryArgs: args("walk")}).Run(env.Ctx))
	err = (&SkipCmd{EntryArgs: args("walk")}).Run(env.Ctx)
	assert.ErrorContains(t, err, "already completed")
	require.NoError(t, (&SkipCmd{EntryArgs: args("walk"), Force: true}).Run(env.Ctx))
	assert.Equal(t, models.StatusSkipped, entry(t, env, "walk").Status())
}

func TestCancelAndUndo(t *testing.T) {
	env := setup(t)

	assert.ErrorContains(t, (&CancelCmd{args("walk")}).Run(env.Ctx), "not in progress")
	assert.ErrorContains(t, (&UndoCmd{args("walk")}).Run(env.Ctx), "nothing to undo")

	require.NoError(t, (&StartCmd{args("walk")}).Run(env.Ctx))
	require.NoError(t, (&CancelCmd{args("walk")}).Run(env.Ctx))
	assert.Equal(t, models.StatusPending, entry(t, env, "walk").Status())

	require.NoError(t, (&DoneCmd{EntryArgs: args("walk")}).Run(env.Ctx))
	require.NoError(t, (&UndoCmd{args("walk")}).Run(env.Ctx))
	walk := entry(t, env, "walk")
	assert.Equal(t, models.StatusPending, walk.Status())
	_, started := walk.StartedAt()
	assert.False(t, started)
}

func TestEntryArgs_UnknownSelector(t *testing.T) {
	env := setup(t)
	err := (&StartCmd{args("swim")}).Run(env.Ctx)
	assert.ErrorContains(t, err, `no entry "swim" on 2026-03-02`)

	id := entry(t, env, "read").ID
	require.NoError(t, (&StartCmd{args(id)}).Run(env.Ctx))
	assert.Equal(t, models.StatusActive, entry(t, env, "read").Status())
}

func TestStatusCmd(t *testing.T) {
	env := setup(t)
	require.NoError(t, (&StartCmd{args("walk")}).Run(env.Ctx))
	env.Output()

	require.NoError(t, (&StatusCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Today 2026-03-02")
	assert.Contains(t, out, "0 done, 0 skipped, 2 left")
	assert.Contains(t, out, "Walk (since 09:00)")
	assert.Contains(t, out, "37.5%")
}

func TestFeedbackCmd(t *testing.T) {
	env := setup(t)

	require.NoError(t, (&FeedbackCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "No record for 2026-03-02")

	ten := 10.0
	require.NoError(t, (&DoneCmd{EntryArgs: args("walk"), Duration: &ten}).Run(env.Ctx))
	env.Output()

	require.NoError(t, (&FeedbackCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Feedback for 2026-03-02")
	assert.Contains(t, out, "2 tasks: 0 on target, 1 too fast, 0 too slow, 1 not done")
	assert.Contains(t, out, "Took less time than planned")

	require.NoError(t, (&FeedbackCmd{Days: 7}).Run(env.Ctx))
	out = env.Output()
	assert.Contains(t, out, "Feedback 2026-02-24 to 2026-03-02 (1 days recorded)")

	assert.Error(t, (&FeedbackCmd{Days: 3, Date: "today"}).Validate())
}

func TestFeedbackCmd_StorageFailureIsHidden(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.Store.GetDB().Close())

	for _, cmd := range []*FeedbackCmd{{Date: "2026-03-02"}, {Days: 7}} {
		err := cmd.Run(env.Ctx)
		require.Error(t, err)
		assert.Equal(t, apperrors.StorageUnavailableMessage, apperrors.UserMessage(err))
	}
}
