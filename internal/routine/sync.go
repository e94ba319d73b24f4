package routine

import (
	"context"

	"github.com/julianstephens/routineos/internal/logger"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/storage"
)

// SyncResult counts the changes a sync made.
type SyncResult struct {
	Added     int
	Reordered int
	Removed   int
}

// Changed reports whether the sync wrote anything.
func (r SyncResult) Changed() bool {
	return r.Added+r.Reordered+r.Removed > 0
}

type syncPlan struct {
	add     []models.BlockEntry
	reorder []storage.OrderUpdate
	remove  []string
}

func (p syncPlan) empty() bool {
	return len(p.add) == 0 && len(p.reorder) == 0 && len(p.remove) == 0
}

func (p syncPlan) result() SyncResult {
	return SyncResult{Added: len(p.add), Reordered: len(p.reorder), Removed: len(p.remove)}
}

// SyncDayEntries makes a day's entries match the blocks scheduled for it:
// missing blocks get a pending entry, entry order follows block order, and
// pending entries of blocks no longer scheduled are removed. Entries that
// were started, completed or skipped are kept as history. Nothing is written
// when the day is already in sync.
func (s *Service) SyncDayEntries(ctx context.Context, dayLogID string, blocksForDay []models.Block) (SyncResult, error) {
	entries, err := s.store.ListEntries(ctx, dayLogID)
	if err != nil {
		return SyncResult{}, wrap("loading entries", err)
	}

	plan := s.planSync(dayLogID, entries, blocksForDay)
	if plan.empty() {
		return SyncResult{}, nil
	}

	err = s.store.WithTx(ctx, func(r storage.Repository) error {
		return applySync(ctx, r, plan)
	})
	if err != nil {
		return SyncResult{}, wrap("syncing day entries", err)
	}

	res := plan.result()
	logger.Debug("day entries synced", "day", dayLogID, "added", res.Added, "reordered", res.Reordered, "removed", res.Removed)
	return res, nil
}

func (s *Service) planSync(dayLogID string, entries []models.BlockEntry, blocksForDay []models.Block) syncPlan {
	var plan syncPlan

	hasEntry := make(map[string]bool, len(entries))
	for _, e := range entries {
		hasEntry[e.BlockID] = true
	}
	blockByID := make(map[string]models.Block, len(blocksForDay))
	for _, b := range blocksForDay {
		blockByID[b.ID] = b
	}

	for _, b := range blocksForDay {
		if hasEntry[b.ID] {
			continue
		}
		plan.add = append(plan.add, s.pendingEntry(dayLogID, b))
		hasEntry[b.ID] = true
	}

	for _, e := range entries {
		b, scheduled := blockByID[e.BlockID]
		switch {
		case scheduled && b.Order != e.Order:
			plan.reorder = append(plan.reorder, storage.OrderUpdate{ID: e.ID, Order: b.Order})
		case !scheduled && e.Status() == models.StatusPending:
			plan.remove = append(plan.remove, e.ID)
		}
	}

	return plan
}

func applySync(ctx context.Context, r storage.Repository, plan syncPlan) error {
	if len(plan.add) > 0 {
		if err := r.AddEntries(ctx, plan.add...); err != nil {
			return err
		}
	}
	if len(plan.reorder) > 0 {
		if err := r.UpdateEntryOrders(ctx, plan.reorder); err != nil {
			return err
		}
	}
	if len(plan.remove) > 0 {
		if err := r.DeleteEntries(ctx, plan.remove...); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) pendingEntry(dayLogID string, b models.Block) models.BlockEntry {
	return models.BlockEntry{
		ID:       s.newID(),
		DayLogID: dayLogID,
		BlockID:  b.ID,
		Order:    b.Order,
		State:    models.Pending{},
	}
}
