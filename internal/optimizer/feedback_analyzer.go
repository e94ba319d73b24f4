package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/storage"
)

// OptimizationType represents the type of optimization suggested
type OptimizationType string

const (
	OptimizationReduceDuration   OptimizationType = "reduce_duration"
	OptimizationIncreaseDuration OptimizationType = "increase_duration"
	OptimizationLowerPriority    OptimizationType = "lower_priority"
	OptimizationRemoveBlock      OptimizationType = "remove_block"
)

// Optimization represents a suggested change to a block
type Optimization struct {
	BlockID        string           `json:"block_id"`
	BlockSlug      string           `json:"block_slug"`
	BlockLabel     string           `json:"block_label"`
	Type           OptimizationType `json:"type"`
	Reason         string           `json:"reason"`
	CurrentValue   int              `json:"current_value,omitempty"`
	SuggestedValue int              `json:"suggested_value,omitempty"`
}

// DayFeedback is the feedback summary of one stored day.
type DayFeedback struct {
	Date    string              `json:"date"`
	Summary TaskFeedbackSummary `json:"summary"`
}

// RangeFeedback aggregates several days.
type RangeFeedback struct {
	From    string              `json:"from"`
	To      string              `json:"to"`
	Days    []DayFeedback       `json:"days"`
	Overall TaskFeedbackSummary `json:"overall"`
}

// FeedbackAnalyzer reads stored days and suggests changes to the catalog.
// Read failures come back as *storage.OpError.
type FeedbackAnalyzer struct {
	store storage.Repository
}

// NewFeedbackAnalyzer creates a new FeedbackAnalyzer
func NewFeedbackAnalyzer(store storage.Repository) *FeedbackAnalyzer {
	return &FeedbackAnalyzer{store: store}
}

// AnalyzeDay returns feedback for a stored day. Days that were never opened
// report false; they are not created.
func (fa *FeedbackAnalyzer) AnalyzeDay(ctx context.Context, date string) (TaskFeedbackSummary, bool, error) {
	blocks, err := fa.blockIndex(ctx)
	if err != nil {
		return TaskFeedbackSummary{}, false, err
	}

	dayLog, err := fa.store.GetDayLogByDate(ctx, date)
	if errors.Is(err, storage.ErrNotFound) {
		return TaskFeedbackSummary{}, false, nil
	}
	if err != nil {
		return TaskFeedbackSummary{}, false, storage.Wrap("loading day "+date, err)
	}

	items, err := fa.dayItems(ctx, dayLog, blocks)
	if err != nil {
		return TaskFeedbackSummary{}, false, err
	}
	return AnalyzeTaskFeedback(items), true, nil
}

// AnalyzeRange returns per-day and overall feedback for the stored days
// between from and to, inclusive.
func (fa *FeedbackAnalyzer) AnalyzeRange(ctx context.Context, from, to string) (RangeFeedback, error) {
	days, err := fa.loadRange(ctx, from, to)
	if err != nil {
		return RangeFeedback{}, err
	}

	out := RangeFeedback{From: from, To: to}
	var all []TaskFeedback
	for _, d := range days {
		summary := AnalyzeTaskFeedback(d.items)
		out.Days = append(out.Days, DayFeedback{Date: d.date, Summary: summary})
		all = append(all, summary.Items...)
	}
	out.Overall = summarize(all)
	return out, nil
}

// SuggestOptimizations looks at each block's verdicts across the range and
// suggests duration or priority changes for blocks with a consistent signal.
func (fa *FeedbackAnalyzer) SuggestOptimizations(ctx context.Context, from, to string) ([]Optimization, error) {
	days, err := fa.loadRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type history struct {
		block    models.Block
		verdicts []TaskFeedback
	}
	var order []string
	byBlock := make(map[string]*history)
	for _, d := range days {
		for _, item := range d.items {
			h, ok := byBlock[item.Block.ID]
			if !ok {
				h = &history{block: item.Block}
				byBlock[item.Block.ID] = h
				order = append(order, item.Block.ID)
			}
			h.verdicts = append(h.verdicts, analyzeItem(item))
		}
	}

	var optimizations []Optimization
	for _, id := range order {
		h := byBlock[id]
		optimizations = append(optimizations, suggestForBlock(h.block, h.verdicts)...)
	}
	return optimizations, nil
}

func suggestForBlock(b models.Block, verdicts []TaskFeedback) []Optimization {
	total := len(verdicts)
	if total < constants.MinObservationsForSuggestion {
		return nil
	}

	var tooSlow, tooFast, notDone int
	var actuals []int
	for _, v := range verdicts {
		switch v.Verdict {
		case VerdictTooSlow:
			tooSlow++
		case VerdictTooFast:
			tooFast++
		case VerdictNotDone:
			notDone++
		}
		if v.ActualMin != nil {
			actuals = append(actuals, *v.ActualMin)
		}
	}

	share := func(n int) float64 { return float64(n) / float64(total) }
	base := Optimization{BlockID: b.ID, BlockSlug: b.Slug, BlockLabel: b.Label}
	var out []Optimization

	current := b.DefaultDurationMin
	switch {
	case share(tooSlow) > constants.DurationSignalShare:
		step := max(1, current/10)
		suggested := max(int(math.Round(movingAverage(current, actuals))), current+step)
		opt := base
		opt.Type = OptimizationIncreaseDuration
		opt.Reason = fmt.Sprintf("%.0f%% of recent days ran longer than planned", share(tooSlow)*100)
		opt.CurrentValue, opt.SuggestedValue = current, suggested
		out = append(out, opt)

	case share(tooFast) > constants.DurationSignalShare:
		step := max(1, current/10)
		suggested := max(constants.MinBlockDurationMin,
			min(int(math.Round(movingAverage(current, actuals))), current-step))
		if suggested < current {
			opt := base
			opt.Type = OptimizationReduceDuration
			opt.Reason = fmt.Sprintf("%.0f%% of recent days finished faster than planned", share(tooFast)*100)
			opt.CurrentValue, opt.SuggestedValue = current, suggested
			out = append(out, opt)
		}
	}

	if notDone >= constants.NotDoneSignalCount || share(notDone) > constants.NotDoneSignalShare {
		opt := base
		reason := fmt.Sprintf("not done on %d of %d recent days", notDone, total)
		if b.IsSkippable {
			opt.Type = OptimizationRemoveBlock
			opt.Reason = reason
		} else if b.CutPriority > constants.MinCutPriority {
			opt.Type = OptimizationLowerPriority
			opt.Reason = reason + "; cut it earlier when the day runs long"
			opt.CurrentValue = b.CutPriority
			opt.SuggestedValue = max(constants.MinCutPriority, b.CutPriority-10)
		} else {
			return out
		}
		out = append(out, opt)
	}

	return out
}

// movingAverage folds actual durations into the planned duration with the
// feedback weights, oldest first.
func movingAverage(planned int, actuals []int) float64 {
	avg := float64(planned)
	for _, a := range actuals {
		avg = avg*constants.FeedbackExistingWeight + float64(a)*constants.FeedbackNewWeight
	}
	return avg
}

type storedDay struct {
	date  string
	items []models.DayItem
}

func (fa *FeedbackAnalyzer) loadRange(ctx context.Context, from, to string) ([]storedDay, error) {
	blocks, err := fa.blockIndex(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := fa.store.ListDayLogs(ctx, from, to)
	if err != nil {
		return nil, storage.Wrap("listing days", err)
	}

	days := make([]storedDay, 0, len(logs))
	for _, dl := range logs {
		items, err := fa.dayItems(ctx, dl, blocks)
		if err != nil {
			return nil, err
		}
		days = append(days, storedDay{date: dl.Date, items: items})
	}
	return days, nil
}

func (fa *FeedbackAnalyzer) blockIndex(ctx context.Context) (map[string]models.Block, error) {
	blocks, err := fa.store.ListBlocks(ctx)
	if err != nil {
		return nil, storage.Wrap("loading blocks", err)
	}
	index := make(map[string]models.Block, len(blocks))
	for _, b := range blocks {
		index[b.ID] = b
	}
	return index, nil
}

// dayItems pairs a day's entries with their blocks. Entries of deleted
// blocks are left out.
func (fa *FeedbackAnalyzer) dayItems(ctx context.Context, dl models.DayLog, blocks map[string]models.Block) ([]models.DayItem, error) {
	entries, err := fa.store.ListEntries(ctx, dl.ID)
	if err != nil {
		return nil, storage.Wrap("loading entries for "+dl.Date, err)
	}
	items := make([]models.DayItem, 0, len(entries))
	for _, e := range entries {
		if b, ok := blocks[e.BlockID]; ok {
			items = append(items, models.DayItem{Block: b, Entry: e})
		}
	}
	return items, nil
}
