package routine

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/scheduler"
	"github.com/julianstephens/routineos/internal/storage"
	"github.com/julianstephens/routineos/internal/utils"
)

// GetOrCreateDayView returns the day for dateKey (YYYY-MM-DD), creating its
// log and entries the first time the day is requested. The returned items
// only include entries whose block is still scheduled on that weekday.
func (s *Service) GetOrCreateDayView(ctx context.Context, dateKey string) (models.DayView, error) {
	weekday, err := utils.Weekday(dateKey)
	if err != nil {
		return models.DayView{}, err
	}

	if _, err := s.EnsureSeeded(ctx); err != nil {
		return models.DayView{}, err
	}

	all, err := s.store.ListBlocks(ctx)
	if err != nil {
		return models.DayView{}, wrap("loading blocks", err)
	}
	forDay := s.sched.BlocksForDay(all, weekday)

	dayLog, err := s.store.GetDayLogByDate(ctx, dateKey)
	if errors.Is(err, storage.ErrNotFound) {
		dayLog, err = s.createDay(ctx, dateKey, forDay)
	}
	if err != nil {
		return models.DayView{}, wrap("loading day", err)
	}

	if _, err := s.SyncDayEntries(ctx, dayLog.ID, forDay); err != nil {
		return models.DayView{}, err
	}

	entries, err := s.store.ListEntries(ctx, dayLog.ID)
	if err != nil {
		return models.DayView{}, wrap("loading entries", err)
	}

	return models.DayView{DayLog: dayLog, Items: pairItems(entries, forDay)}, nil
}

func (s *Service) createDay(ctx context.Context, dateKey string, forDay []models.Block) (models.DayLog, error) {
	now := s.now()
	dayLog := models.DayLog{ID: s.newID(), Date: dateKey, CreatedAt: now, UpdatedAt: now}

	entries := make([]models.BlockEntry, 0, len(forDay))
	for _, b := range forDay {
		entries = append(entries, s.pendingEntry(dayLog.ID, b))
	}

	err := s.store.WithTx(ctx, func(r storage.Repository) error {
		if err := r.AddDayLog(ctx, dayLog); err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return r.AddEntries(ctx, entries...)
	})
	if err != nil {
		return models.DayLog{}, fmt.Errorf("creating day %s: %w", dateKey, err)
	}
	return dayLog, nil
}

// pairItems joins entries (already ordered) with their blocks, dropping
// entries whose block is gone or not scheduled.
func pairItems(entries []models.BlockEntry, forDay []models.Block) []models.DayItem {
	blockByID := make(map[string]models.Block, len(forDay))
	for _, b := range forDay {
		blockByID[b.ID] = b
	}

	items := make([]models.DayItem, 0, len(entries))
	for _, e := range entries {
		b, ok := blockByID[e.BlockID]
		if !ok {
			continue
		}
		items = append(items, models.DayItem{Block: b, Entry: e})
	}
	return items
}

// FindDayView loads a day that already exists without creating or syncing
// it. The items include every entry whose block still exists, so days in
// the past keep their history after the catalog changes.
func (s *Service) FindDayView(ctx context.Context, dateKey string) (models.DayView, bool, error) {
	dayLog, err := s.store.GetDayLogByDate(ctx, dateKey)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DayView{}, false, nil
	}
	if err != nil {
		return models.DayView{}, false, wrap("loading day", err)
	}

	entries, err := s.store.ListEntries(ctx, dayLog.ID)
	if err != nil {
		return models.DayView{}, false, wrap("loading entries", err)
	}
	all, err := s.store.ListBlocks(ctx)
	if err != nil {
		return models.DayView{}, false, wrap("loading blocks", err)
	}

	return models.DayView{DayLog: dayLog, Items: pairItems(entries, all)}, true, nil
}

// Schedule is a day view together with its computed layout.
type Schedule struct {
	View           models.DayView
	Times          map[string]string // entry ID -> HH:MM
	EndTime        string
	Progress       models.ProgressSnapshot
	CurrentEntryID string
}

// Current returns the item the user should be working on.
func (sc Schedule) Current() (models.DayItem, bool) {
	for _, item := range sc.View.Items {
		if item.Entry.ID == sc.CurrentEntryID {
			return item, true
		}
	}
	return models.DayItem{}, false
}

// DaySchedule returns the day view for dateKey with time labels, progress
// and the current entry.
func (s *Service) DaySchedule(ctx context.Context, dateKey string) (Schedule, error) {
	view, err := s.GetOrCreateDayView(ctx, dateKey)
	if err != nil {
		return Schedule{}, err
	}

	entries := make([]models.BlockEntry, len(view.Items))
	for i, item := range view.Items {
		entries[i] = item.Entry
	}
	end, _ := s.sched.EndTime(view.Items)

	return Schedule{
		View:           view,
		Times:          s.sched.EntryTimes(view.Items),
		EndTime:        end,
		Progress:       scheduler.Progress(view.Items),
		CurrentEntryID: scheduler.ActiveEntryID(entries),
	}, nil
}

// FindEntry resolves selector within a day, matching an entry ID first and
// then a block slug.
func FindEntry(view models.DayView, selector string) (models.DayItem, bool) {
	for _, item := range view.Items {
		if item.Entry.ID == selector {
			return item, true
		}
	}
	for _, item := range view.Items {
		if item.Block.Slug == selector {
			return item, true
		}
	}
	return models.DayItem{}, false
}
