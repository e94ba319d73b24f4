package scheduler

import (
	"sort"
	"time"

	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/utils"
)

// Scheduler projects blocks onto days and lays out a day's time labels.
type Scheduler struct {
	dayStart int // minutes since midnight
}

type Option func(*Scheduler)

// WithDayStart sets where the schedule begins when no anchor precedes a block.
// An unparseable clock keeps the default.
func WithDayStart(clock string) Option {
	return func(s *Scheduler) {
		if m, err := utils.ParseClockToMinutes(clock); err == nil {
			s.dayStart = m
		}
	}
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{}
	s.dayStart, _ = utils.ParseClockToMinutes(constants.DefaultScheduleStart)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BlocksForDay returns the blocks scheduled on day, ordered by Order. Blocks
// with equal Order keep their input order. The input slice is not modified.
func (s *Scheduler) BlocksForDay(all []models.Block, day time.Weekday) []models.Block {
	out := make([]models.Block, 0, len(all))
	for _, b := range all {
		if b.AppliesOn(day) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// EntryTimes maps each entry ID to its start label. Anchors start at their
// anchor time; every other item starts when the previous item ends.
func (s *Scheduler) EntryTimes(items []models.DayItem) map[string]string {
	times, _ := s.layout(items)
	return times
}

// EndTime returns the label at which the last item is projected to end.
func (s *Scheduler) EndTime(items []models.DayItem) (string, bool) {
	_, end := s.layout(items)
	if end == nil {
		return "", false
	}
	return utils.MinutesToClock(*end), true
}

func (s *Scheduler) layout(items []models.DayItem) (map[string]string, *int) {
	sorted := make([]models.DayItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Entry.Order < sorted[j].Entry.Order
	})

	times := make(map[string]string, len(sorted))
	var cursor *int

	for _, item := range sorted {
		if anchor, ok := anchorMinutes(item.Block); ok {
			times[item.Entry.ID] = item.Block.AnchorTime
			next := anchor + effectiveDuration(item)
			cursor = &next
			continue
		}

		if cursor == nil {
			start := s.dayStart
			cursor = &start
		}
		times[item.Entry.ID] = utils.MinutesToClock(*cursor)
		*cursor += effectiveDuration(item)
	}

	return times, cursor
}

// anchorMinutes reports the anchor time of b. A block flagged as an anchor
// with a missing or malformed time is laid out like any other block.
func anchorMinutes(b models.Block) (int, bool) {
	if !b.IsAnchor || b.AnchorTime == "" {
		return 0, false
	}
	m, err := utils.ParseClockToMinutes(b.AnchorTime)
	if err != nil {
		return 0, false
	}
	return m, true
}

func effectiveDuration(item models.DayItem) int {
	if d, ok := item.Entry.DurationMin(); ok && d > 0 {
		return d
	}
	return item.Block.DefaultDurationMin
}

// ActiveEntryID returns the first active entry by order, else the first
// pending one, else "".
func ActiveEntryID(entries []models.BlockEntry) string {
	sorted := make([]models.BlockEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	for _, e := range sorted {
		if e.Status() == models.StatusActive {
			return e.ID
		}
	}
	for _, e := range sorted {
		if e.Status() == models.StatusPending {
			return e.ID
		}
	}
	return ""
}

// Progress counts completed and skipped items.
func Progress(items []models.DayItem) models.ProgressSnapshot {
	p := models.ProgressSnapshot{Total: len(items)}
	for _, item := range items {
		switch item.Entry.Status() {
		case models.StatusCompleted:
			p.Completed++
		case models.StatusSkipped:
			p.Skipped++
		}
	}
	return p
}
