package optimizer

import (
	"sort"

	"github.com/julianstephens/routineos/internal/checkin"
	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/models"
)

// Verdict classifies how a day's entry compared with its plan.
type Verdict string

const (
	VerdictCorrect          Verdict = "correct"
	VerdictNotDone          Verdict = "not-done"
	VerdictTooFast          Verdict = "too-fast"
	VerdictTooSlow          Verdict = "too-slow"
	VerdictInsufficientData Verdict = "insufficient-data"
)

// Problem descriptions, one per classification rule.
const (
	ProblemNotStarted        = "Task not started"
	ProblemInProgress        = "Task still in progress"
	ProblemSkipped           = "Task skipped"
	ProblemNoDuration        = "Completed without a recorded time"
	ProblemNoPlannedDuration = "No planned duration to compare"
	ProblemStartAndEndOff    = "Started and finished off schedule"
	ProblemStartedLate       = "Started off schedule"
	ProblemEndedLate         = "Finished off schedule"
	ProblemFeltShort         = "Time felt too short"
	ProblemFeltLong          = "Time felt too long"
	ProblemLowSatisfaction   = "Done with low satisfaction"
	ProblemFasterThanPlanned = "Took less time than planned"
	ProblemSlowerThanPlanned = "Took more time than planned"
	ProblemWithinRange       = "Within the expected range"
)

// TaskFeedback is the verdict for one entry.
type TaskFeedback struct {
	EntryID     string             `json:"entry_id"`
	BlockID     string             `json:"block_id"`
	Label       string             `json:"label"`
	Status      models.BlockStatus `json:"status"`
	ExpectedMin int                `json:"expected_min"`
	ActualMin   *int               `json:"actual_min,omitempty"`
	Verdict     Verdict            `json:"verdict"`
	Problem     string             `json:"problem"`
}

// ProblemCount is how often a problem description occurred.
type ProblemCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TaskFeedbackSummary aggregates the verdicts for a set of entries.
type TaskFeedbackSummary struct {
	Total            int            `json:"total"`
	Correct          int            `json:"correct"`
	NotDone          int            `json:"not_done"`
	TooFast          int            `json:"too_fast"`
	TooSlow          int            `json:"too_slow"`
	InsufficientData int            `json:"insufficient_data"`
	Items            []TaskFeedback `json:"items"`
	Problems         []ProblemCount `json:"problems"`
}

// AnalyzeTaskFeedback classifies each item and ranks the problems found.
func AnalyzeTaskFeedback(items []models.DayItem) TaskFeedbackSummary {
	results := make([]TaskFeedback, len(items))
	for i, item := range items {
		results[i] = analyzeItem(item)
	}
	return summarize(results)
}

func summarize(results []TaskFeedback) TaskFeedbackSummary {
	s := TaskFeedbackSummary{Total: len(results), Items: results}

	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		switch r.Verdict {
		case VerdictCorrect:
			s.Correct++
		case VerdictNotDone:
			s.NotDone++
		case VerdictTooFast:
			s.TooFast++
		case VerdictTooSlow:
			s.TooSlow++
		case VerdictInsufficientData:
			s.InsufficientData++
		}
		if _, seen := counts[r.Problem]; !seen {
			order = append(order, r.Problem)
		}
		counts[r.Problem]++
	}

	s.Problems = make([]ProblemCount, len(order))
	for i, label := range order {
		s.Problems[i] = ProblemCount{Label: label, Count: counts[label]}
	}
	sort.SliceStable(s.Problems, func(i, j int) bool {
		return s.Problems[i].Count > s.Problems[j].Count
	})
	return s
}

func analyzeItem(item models.DayItem) TaskFeedback {
	fb := TaskFeedback{
		EntryID:     item.Entry.ID,
		BlockID:     item.Block.ID,
		Label:       item.Block.Label,
		Status:      item.Entry.Status(),
		ExpectedMin: item.Block.DefaultDurationMin,
	}
	actual, hasActual := item.Entry.DurationMin()
	if hasActual {
		fb.ActualMin = &actual
	}

	verdict := func(v Verdict, problem string) TaskFeedback {
		fb.Verdict, fb.Problem = v, problem
		return fb
	}

	switch fb.Status {
	case models.StatusPending:
		return verdict(VerdictNotDone, ProblemNotStarted)
	case models.StatusActive:
		return verdict(VerdictNotDone, ProblemInProgress)
	case models.StatusSkipped:
		return verdict(VerdictNotDone, ProblemSkipped)
	}

	if !hasActual {
		return verdict(VerdictInsufficientData, ProblemNoDuration)
	}
	if fb.ExpectedMin <= 0 {
		return verdict(VerdictCorrect, ProblemNoPlannedDuration)
	}

	ratio := float64(actual) / float64(fb.ExpectedMin)

	if ci, ok := checkin.Parse(item.Entry.Notes()); ok {
		switch {
		case !ci.StartedOnTime && !ci.EndedOnTime:
			return verdict(VerdictTooSlow, ProblemStartAndEndOff)
		case !ci.StartedOnTime:
			return verdict(VerdictTooSlow, ProblemStartedLate)
		case !ci.EndedOnTime:
			return verdict(VerdictTooSlow, ProblemEndedLate)
		case !ci.TimeWasCorrect:
			if ratio <= 1 {
				return verdict(VerdictTooFast, ProblemFeltShort)
			}
			return verdict(VerdictTooSlow, ProblemFeltLong)
		case ci.Mood == checkin.MoodDown:
			return verdict(VerdictTooSlow, ProblemLowSatisfaction)
		}
	}

	switch {
	case ratio < constants.FastRatioThreshold:
		return verdict(VerdictTooFast, ProblemFasterThanPlanned)
	case ratio > constants.SlowRatioThreshold:
		return verdict(VerdictTooSlow, ProblemSlowerThanPlanned)
	}
	return verdict(VerdictCorrect, ProblemWithinRange)
}
