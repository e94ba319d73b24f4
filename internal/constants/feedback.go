package constants

const (
	// Estimate accuracy thresholds for actual/expected duration ratios
	FastRatioThreshold = 0.6
	SlowRatioThreshold = 1.4

	// Optimizer constants:
	// - FeedbackExistingWeight and FeedbackNewWeight are exponential moving average (EMA)
	//   weights for the current planned duration and the observed actual duration.
	//   They must sum to 1.0.
	FeedbackExistingWeight = 0.8
	FeedbackNewWeight      = 0.2
	MinBlockDurationMin    = 5

	// A block needs at least this many observed days before suggestions are made
	MinObservationsForSuggestion = 3
	// Majority share of a single signal that triggers a duration suggestion
	DurationSignalShare = 0.5
	// Share of days not done that triggers a cut suggestion
	NotDoneSignalShare = 0.4
	NotDoneSignalCount = 3
)

func init() {
	// Runtime validation: ensure EMA weights sum to 1.0
	if FeedbackExistingWeight+FeedbackNewWeight != 1.0 {
		panic("FeedbackExistingWeight and FeedbackNewWeight must sum to 1.0")
	}
}
