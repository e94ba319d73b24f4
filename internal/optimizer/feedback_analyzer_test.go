package optimizer

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/storage/sqlite"
)

type plannedDay struct {
	date   string
	states map[string]models.EntryState // block ID -> state, nil means pending
}

func newHistoryStore(t *testing.T, blocks []models.Block, days []plannedDay) *sqlite.Store {
	t.Helper()
	ctx := context.Background()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "routineos.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.AddBlocks(ctx, blocks...))
	for i, d := range days {
		dayID := fmt.Sprintf("day-%d", i)
		require.NoError(t, store.AddDayLog(ctx, models.DayLog{ID: dayID, Date: d.date, CreatedAt: start, UpdatedAt: start}))
		for _, b := range blocks {
			state, ok := d.states[b.ID]
			if !ok {
				continue
			}
			if state == nil {
				state = models.Pending{}
			}
			require.NoError(t, store.AddEntries(ctx, models.BlockEntry{
				ID:       dayID + "-" + b.ID,
				DayLogID: dayID,
				BlockID:  b.ID,
				Order:    b.Order,
				State:    state,
			}))
		}
	}
	return store
}

func historyBlock(id string, order, duration int, skippable bool) models.Block {
	return models.Block{
		ID: id, Slug: id, Label: id, Icon: "✅", Color: "#22d3ee", Category: models.CategorySequence,
		DefaultDurationMin: duration, Order: order, DaysOfWeek: models.AllWeekdays,
		IsSkippable: skippable, CutPriority: 50, CreatedAt: start, UpdatedAt: start,
	}
}

func fixtureHistory(t *testing.T) *sqlite.Store {
	blocks := []models.Block{
		historyBlock("slow", 0, 30, false),
		historyBlock("fast", 10, 60, false),
		historyBlock("skippy", 20, 15, true),
		historyBlock("core", 30, 20, false),
		historyBlock("fine", 40, 30, false),
		historyBlock("rare", 50, 30, true),
	}
	skipped := models.Skipped{SkippedAt: start}
	days := []plannedDay{
		{"2026-03-02", map[string]models.EntryState{
			"slow": completed(45, ""), "fast": completed(20, ""), "skippy": nil,
			"core": skipped, "fine": completed(30, ""), "rare": nil,
		}},
		{"2026-03-03", map[string]models.EntryState{
			"slow": completed(50, ""), "fast": completed(20, ""), "skippy": nil,
			"core": skipped, "fine": completed(30, ""), "rare": nil,
		}},
		{"2026-03-04", map[string]models.EntryState{
			"slow": completed(60, ""), "fast": completed(20, ""), "skippy": nil,
			"core": skipped, "fine": completed(30, ""),
		}},
	}
	return newHistoryStore(t, blocks, days)
}

func TestSuggestOptimizations(t *testing.T) {
	analyzer := NewFeedbackAnalyzer(fixtureHistory(t))

	got, err := analyzer.SuggestOptimizations(context.Background(), "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "slow", got[0].BlockID)
	assert.Equal(t, OptimizationIncreaseDuration, got[0].Type)
	assert.Equal(t, 30, got[0].CurrentValue)
	assert.Equal(t, 41, got[0].SuggestedValue)

	assert.Equal(t, "fast", got[1].BlockID)
	assert.Equal(t, OptimizationReduceDuration, got[1].Type)
	assert.Equal(t, 40, got[1].SuggestedValue)

	assert.Equal(t, "skippy", got[2].BlockID)
	assert.Equal(t, OptimizationRemoveBlock, got[2].Type)

	assert.Equal(t, "core", got[3].BlockID)
	assert.Equal(t, OptimizationLowerPriority, got[3].Type)
	assert.Equal(t, 50, got[3].CurrentValue)
	assert.Equal(t, 40, got[3].SuggestedValue)
}

func TestSuggestOptimizations_RangeLimitsHistory(t *testing.T) {
	analyzer := NewFeedbackAnalyzer(fixtureHistory(t))

	got, err := analyzer.SuggestOptimizations(context.Background(), "2026-03-03", "2026-03-04")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAnalyzeRange(t *testing.T) {
	analyzer := NewFeedbackAnalyzer(fixtureHistory(t))

	got, err := analyzer.AnalyzeRange(context.Background(), "2026-03-01", "2026-03-03")
	require.NoError(t, err)
	require.Len(t, got.Days, 2)
	assert.Equal(t, "2026-03-02", got.Days[0].Date)
	assert.Equal(t, 6, got.Days[0].Summary.Total)
	assert.Equal(t, 12, got.Overall.Total)
	assert.Equal(t, 6, got.Overall.NotDone)
	assert.Equal(t, 2, got.Overall.TooFast)
	assert.Equal(t, 2, got.Overall.TooSlow)
	assert.Equal(t, 2, got.Overall.Correct)
}

func TestAnalyzeDay(t *testing.T) {
	store := fixtureHistory(t)
	analyzer := NewFeedbackAnalyzer(store)
	ctx := context.Background()

	summary, found, err := analyzer.AnalyzeDay(ctx, "2026-03-04")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 5, summary.Total)

	_, found, err = analyzer.AnalyzeDay(ctx, "2026-04-01")
	require.NoError(t, err)
	assert.False(t, found)

	n, err := store.CountBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestMovingAverage(t *testing.T) {
	assert.InDelta(t, 30.0, movingAverage(30, nil), 1e-9)
	assert.InDelta(t, 33.0, movingAverage(30, []int{45}), 1e-9)
	assert.InDelta(t, 41.12, movingAverage(30, []int{45, 50, 60}), 1e-9)
}

func TestSuggestForBlock_FloorsReduction(t *testing.T) {
	b := historyBlock("tiny", 0, 6, false)
	verdicts := []TaskFeedback{{Verdict: VerdictTooFast}, {Verdict: VerdictTooFast}, {Verdict: VerdictTooFast}}

	got := suggestForBlock(b, verdicts)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].SuggestedValue)

	b.DefaultDurationMin = 5
	assert.Empty(t, suggestForBlock(b, verdicts))
}
