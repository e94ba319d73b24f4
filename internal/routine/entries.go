package routine

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/julianstephens/routineos/internal/logger"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/storage"
	"github.com/julianstephens/routineos/internal/utils"
)

// MutateEntryInput requests a status change for one entry. DurationMin and
// Notes are only read when completing.
type MutateEntryInput struct {
	EntryID     string
	Status      models.BlockStatus
	DurationMin *float64
	Notes       *string
}

// MutateEntryStatus moves an entry to a new status. A missing entry is
// ignored. Starting an entry returns every other active entry of the same
// day to pending. All writes, including the day log timestamp, happen in a
// single transaction.
func (s *Service) MutateEntryStatus(ctx context.Context, in MutateEntryInput) error {
	return s.mutateEntry(ctx, in, false)
}

// mutateEntry applies in. With dropCompletion a completed entry is first
// returned to pending inside the same transaction.
func (s *Service) mutateEntry(ctx context.Context, in MutateEntryInput, dropCompletion bool) error {
	to, err := models.ParseStatus(string(in.Status))
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(r storage.Repository) error {
		entry, err := r.GetEntry(ctx, in.EntryID)
		if errors.Is(err, storage.ErrNotFound) {
			logger.Debug("entry not found, ignoring status change", "entry", in.EntryID)
			return nil
		}
		if err != nil {
			return err
		}

		from := entry.Status()
		if dropCompletion && from == models.StatusCompleted {
			entry.State = models.Pending{}
		}
		if err := models.CheckTransition(entry.Status(), to); err != nil {
			return err
		}

		now := s.now()
		if to == models.StatusActive {
			if err := resetOtherActive(ctx, r, entry); err != nil {
				return err
			}
		}
		entry.State = nextState(entry, to, in, now)

		if err := r.UpdateEntries(ctx, entry); err != nil {
			return err
		}
		if err := r.TouchDayLog(ctx, entry.DayLogID, now); err != nil {
			return err
		}
		logger.Debug("entry status changed", "entry", entry.ID, "from", from, "to", to)
		return nil
	})
	return wrap("updating entry status", err)
}

func resetOtherActive(ctx context.Context, r storage.Repository, entry models.BlockEntry) error {
	siblings, err := r.ListEntries(ctx, entry.DayLogID)
	if err != nil {
		return err
	}
	var resets []models.BlockEntry
	for _, other := range siblings {
		if other.ID != entry.ID && other.Status() == models.StatusActive {
			other.State = models.Pending{}
			resets = append(resets, other)
		}
	}
	if len(resets) == 0 {
		return nil
	}
	return r.UpdateEntries(ctx, resets...)
}

func nextState(entry models.BlockEntry, to models.BlockStatus, in MutateEntryInput, now time.Time) models.EntryState {
	started, hasStarted := entry.StartedAt()

	switch to {
	case models.StatusActive:
		if !hasStarted {
			started = now
		}
		return models.Active{StartedAt: started}

	case models.StatusSkipped:
		st := models.Skipped{SkippedAt: now}
		if hasStarted {
			st.StartedAt = &started
		}
		return st

	case models.StatusCompleted:
		if !hasStarted {
			started = now
		}
		duration := utils.DiffMinutes(started, now)
		if in.DurationMin != nil && !math.IsNaN(*in.DurationMin) && !math.IsInf(*in.DurationMin, 0) {
			duration = max(1, int(math.Round(*in.DurationMin)))
		}
		var notes string
		if in.Notes != nil {
			notes = *in.Notes
		}
		return models.Completed{
			StartedAt:   started,
			CompletedAt: now,
			DurationMin: duration,
			Notes:       notes,
		}
	}

	return models.Pending{}
}

// Start makes the entry the day's active task.
func (s *Service) Start(ctx context.Context, entryID string) error {
	return s.MutateEntryStatus(ctx, MutateEntryInput{EntryID: entryID, Status: models.StatusActive})
}

// Complete finishes the entry. A nil duration is measured from its start.
func (s *Service) Complete(ctx context.Context, entryID string, durationMin *float64, notes *string) error {
	return s.MutateEntryStatus(ctx, MutateEntryInput{
		EntryID:     entryID,
		Status:      models.StatusCompleted,
		DurationMin: durationMin,
		Notes:       notes,
	})
}

func (s *Service) Skip(ctx context.Context, entryID string) error {
	return s.MutateEntryStatus(ctx, MutateEntryInput{EntryID: entryID, Status: models.StatusSkipped})
}

// ForceSkip skips the entry even when it was already completed. The
// completion record is dropped in the same transaction as the skip.
func (s *Service) ForceSkip(ctx context.Context, entryID string) error {
	return s.mutateEntry(ctx, MutateEntryInput{EntryID: entryID, Status: models.StatusSkipped}, true)
}

// Reset returns the entry to pending, clearing everything recorded for it.
func (s *Service) Reset(ctx context.Context, entryID string) error {
	return s.MutateEntryStatus(ctx, MutateEntryInput{EntryID: entryID, Status: models.StatusPending})
}
