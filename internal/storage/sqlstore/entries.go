package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/storage"
)

const entryColumns = `id, day_log_id, block_id, status, started_at, completed_at, skipped_at,
	duration_min, sort_order, notes`

func scanEntry(row scanner) (models.BlockEntry, error) {
	var (
		rec                               models.EntryRecord
		startedAt, completedAt, skippedAt sql.NullString
		duration                          sql.NullInt64
		notes                             sql.NullString
		err                               error
	)
	if err := row.Scan(&rec.ID, &rec.DayLogID, &rec.BlockID, &rec.Status, &startedAt,
		&completedAt, &skippedAt, &duration, &rec.Order, &notes); err != nil {
		return models.BlockEntry{}, err
	}

	if rec.StartedAt, err = parseNullableTime(startedAt); err != nil {
		return models.BlockEntry{}, err
	}
	if rec.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return models.BlockEntry{}, err
	}
	if rec.SkippedAt, err = parseNullableTime(skippedAt); err != nil {
		return models.BlockEntry{}, err
	}
	if duration.Valid {
		d := int(duration.Int64)
		rec.DurationMin = &d
	}
	if notes.Valid {
		rec.Notes = &notes.String
	}

	return models.EntryFromRecord(rec)
}

func (r *Repo) GetEntry(ctx context.Context, id string) (models.BlockEntry, error) {
	e, err := scanEntry(r.queryRow(ctx, "SELECT "+entryColumns+" FROM block_entries WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.BlockEntry{}, fmt.Errorf("entry %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.BlockEntry{}, fmt.Errorf("loading entry %s: %w", id, err)
	}
	return e, nil
}

func (r *Repo) ListEntries(ctx context.Context, dayLogID string) ([]models.BlockEntry, error) {
	rows, err := r.query(ctx, "SELECT "+entryColumns+" FROM block_entries WHERE day_log_id = ? ORDER BY sort_order, id", dayLogID)
	if err != nil {
		return nil, fmt.Errorf("listing entries of day %s: %w", dayLogID, err)
	}
	defer rows.Close()

	var entries []models.BlockEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("listing entries of day %s: %w", dayLogID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repo) AddEntries(ctx context.Context, entries ...models.BlockEntry) error {
	for _, e := range entries {
		rec := e.Record()
		if _, err := r.exec(ctx, "INSERT INTO block_entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			rec.ID, rec.DayLogID, rec.BlockID, rec.Status, nullableTime(rec.StartedAt),
			nullableTime(rec.CompletedAt), nullableTime(rec.SkippedAt), nullableInt(rec.DurationMin),
			rec.Order, nullableString(rec.Notes)); err != nil {
			return fmt.Errorf("adding entry %s: %w", rec.ID, err)
		}
	}
	return nil
}

func (r *Repo) UpdateEntries(ctx context.Context, entries ...models.BlockEntry) error {
	for _, e := range entries {
		rec := e.Record()
		if err := r.execOne(ctx, "entry", rec.ID, `UPDATE block_entries SET block_id = ?, status = ?,
			started_at = ?, completed_at = ?, skipped_at = ?, duration_min = ?, sort_order = ?, notes = ?
			WHERE id = ?`,
			rec.BlockID, rec.Status, nullableTime(rec.StartedAt), nullableTime(rec.CompletedAt),
			nullableTime(rec.SkippedAt), nullableInt(rec.DurationMin), rec.Order,
			nullableString(rec.Notes), rec.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) UpdateEntryOrders(ctx context.Context, updates []storage.OrderUpdate) error {
	for _, u := range updates {
		if _, err := r.exec(ctx, "UPDATE block_entries SET sort_order = ? WHERE id = ?", u.Order, u.ID); err != nil {
			return fmt.Errorf("reordering entry %s: %w", u.ID, err)
		}
	}
	return nil
}

func (r *Repo) DeleteEntries(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := r.exec(ctx, "DELETE FROM block_entries WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting entry %s: %w", id, err)
		}
	}
	return nil
}
