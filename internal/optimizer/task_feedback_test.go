package optimizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/routineos/internal/checkin"
	"github.com/julianstephens/routineos/internal/models"
)

var start = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func completed(duration int, notes string) models.EntryState {
	return models.Completed{
		StartedAt:   start,
		CompletedAt: start.Add(time.Duration(duration) * time.Minute),
		DurationMin: duration,
		Notes:       notes,
	}
}

func dayItem(id string, expected int, state models.EntryState) models.DayItem {
	return models.DayItem{
		Block: models.Block{ID: "b-" + id, Label: "Task " + id, DefaultDurationMin: expected},
		Entry: models.BlockEntry{ID: id, BlockID: "b-" + id, State: state},
	}
}

func TestAnalyzeTaskFeedback_Verdicts(t *testing.T) {
	checkIn := func(c checkin.CheckIn) string { return checkin.Serialize(c) }
	onTime := checkin.CheckIn{Mood: checkin.MoodUp, TimeWasCorrect: true, StartedOnTime: true, EndedOnTime: true}

	withCheckIn := func(mod func(*checkin.CheckIn)) string {
		c := onTime
		mod(&c)
		return checkIn(c)
	}

	tests := []struct {
		name    string
		item    models.DayItem
		verdict Verdict
		problem string
	}{
		{"pending", dayItem("a", 30, nil), VerdictNotDone, ProblemNotStarted},
		{"active", dayItem("a", 30, models.Active{StartedAt: start}), VerdictNotDone, ProblemInProgress},
		{"skipped", dayItem("a", 30, models.Skipped{SkippedAt: start}), VerdictNotDone, ProblemSkipped},
		{"completed without duration", dayItem("a", 30, completed(0, "")), VerdictInsufficientData, ProblemNoDuration},
		{"no planned duration", dayItem("a", 0, completed(12, "")), VerdictCorrect, ProblemNoPlannedDuration},
		{"much faster", dayItem("a", 30, completed(10, "")), VerdictTooFast, ProblemFasterThanPlanned},
		{"much slower", dayItem("a", 30, completed(45, "")), VerdictTooSlow, ProblemSlowerThanPlanned},
		{"lower bound is correct", dayItem("a", 10, completed(6, "")), VerdictCorrect, ProblemWithinRange},
		{"upper bound is correct", dayItem("a", 10, completed(14, "")), VerdictCorrect, ProblemWithinRange},
		{"free text notes are ignored", dayItem("a", 30, completed(10, "was fine")), VerdictTooFast, ProblemFasterThanPlanned},
		{
			"late start and end",
			dayItem("a", 30, completed(30, withCheckIn(func(c *checkin.CheckIn) { c.StartedOnTime, c.EndedOnTime = false, false }))),
			VerdictTooSlow, ProblemStartAndEndOff,
		},
		{
			"late start",
			dayItem("a", 30, completed(30, withCheckIn(func(c *checkin.CheckIn) { c.StartedOnTime = false }))),
			VerdictTooSlow, ProblemStartedLate,
		},
		{
			"late end",
			dayItem("a", 30, completed(10, withCheckIn(func(c *checkin.CheckIn) { c.EndedOnTime = false }))),
			VerdictTooSlow, ProblemEndedLate,
		},
		{
			"felt short",
			dayItem("a", 30, completed(30, withCheckIn(func(c *checkin.CheckIn) { c.TimeWasCorrect = false }))),
			VerdictTooFast, ProblemFeltShort,
		},
		{
			"felt long",
			dayItem("a", 30, completed(31, withCheckIn(func(c *checkin.CheckIn) { c.TimeWasCorrect = false }))),
			VerdictTooSlow, ProblemFeltLong,
		},
		{
			"low mood",
			dayItem("a", 30, completed(30, withCheckIn(func(c *checkin.CheckIn) { c.Mood = checkin.MoodDown }))),
			VerdictTooSlow, ProblemLowSatisfaction,
		},
		{"happy check-in falls back to ratio", dayItem("a", 30, completed(10, checkIn(onTime))), VerdictTooFast, ProblemFasterThanPlanned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeTaskFeedback([]models.DayItem{tt.item})
			assert.Equal(t, 1, got.Total)
			assert.Equal(t, tt.verdict, got.Items[0].Verdict)
			assert.Equal(t, tt.problem, got.Items[0].Problem)
		})
	}
}

func TestAnalyzeTaskFeedback_ShortTaskAgainstLongPlan(t *testing.T) {
	got := AnalyzeTaskFeedback([]models.DayItem{dayItem("e", 30, completed(10, ""))})
	assert.Equal(t, VerdictTooFast, got.Items[0].Verdict)
	assert.Equal(t, 1, got.TooFast)
	assert.Equal(t, 10, *got.Items[0].ActualMin)
}

func TestAnalyzeTaskFeedback_Summary(t *testing.T) {
	items := []models.DayItem{
		dayItem("a", 30, completed(30, "")),
		dayItem("b", 30, nil),
		dayItem("c", 30, completed(10, "")),
		dayItem("d", 30, nil),
		dayItem("e", 30, models.Skipped{SkippedAt: start}),
		dayItem("f", 30, completed(10, "")),
		dayItem("g", 30, completed(60, "")),
	}

	got := AnalyzeTaskFeedback(items)

	assert.Equal(t, 7, got.Total)
	assert.Equal(t, 1, got.Correct)
	assert.Equal(t, 3, got.NotDone)
	assert.Equal(t, 2, got.TooFast)
	assert.Equal(t, 1, got.TooSlow)
	assert.Equal(t, 0, got.InsufficientData)
	assert.Equal(t, []ProblemCount{
		{ProblemNotStarted, 2},
		{ProblemFasterThanPlanned, 2},
		{ProblemWithinRange, 1},
		{ProblemSkipped, 1},
		{ProblemSlowerThanPlanned, 1},
	}, got.Problems)
}

func TestAnalyzeTaskFeedback_Empty(t *testing.T) {
	got := AnalyzeTaskFeedback(nil)
	assert.Equal(t, 0, got.Total)
	assert.Empty(t, got.Items)
	assert.Empty(t, got.Problems)
}
