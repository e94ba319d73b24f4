package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/storage"
)

func scanDayLog(row scanner) (models.DayLog, error) {
	var (
		d                    models.DayLog
		createdAt, updatedAt string
		err                  error
	)
	if err := row.Scan(&d.ID, &d.Date, &createdAt, &updatedAt); err != nil {
		return models.DayLog{}, err
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.DayLog{}, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.DayLog{}, err
	}
	return d, nil
}

func (r *Repo) getDayLog(ctx context.Context, column, value string) (models.DayLog, error) {
	d, err := scanDayLog(r.queryRow(ctx, "SELECT id, date, created_at, updated_at FROM day_logs WHERE "+column+" = ?", value))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DayLog{}, fmt.Errorf("day log %s: %w", value, storage.ErrNotFound)
	}
	if err != nil {
		return models.DayLog{}, fmt.Errorf("loading day log %s: %w", value, err)
	}
	return d, nil
}

func (r *Repo) GetDayLog(ctx context.Context, id string) (models.DayLog, error) {
	return r.getDayLog(ctx, "id", id)
}

func (r *Repo) GetDayLogByDate(ctx context.Context, date string) (models.DayLog, error) {
	return r.getDayLog(ctx, "date", date)
}

func (r *Repo) ListDayLogs(ctx context.Context, from, to string) ([]models.DayLog, error) {
	rows, err := r.query(ctx, "SELECT id, date, created_at, updated_at FROM day_logs WHERE date >= ? AND date <= ? ORDER BY date", from, to)
	if err != nil {
		return nil, fmt.Errorf("listing day logs: %w", err)
	}
	defer rows.Close()

	var logs []models.DayLog
	for rows.Next() {
		d, err := scanDayLog(rows)
		if err != nil {
			return nil, fmt.Errorf("listing day logs: %w", err)
		}
		logs = append(logs, d)
	}
	return logs, rows.Err()
}

func (r *Repo) AddDayLog(ctx context.Context, d models.DayLog) error {
	if _, err := r.exec(ctx, "INSERT INTO day_logs (id, date, created_at, updated_at) VALUES (?, ?, ?, ?)",
		d.ID, d.Date, formatTime(d.CreatedAt), formatTime(d.UpdatedAt)); err != nil {
		return fmt.Errorf("adding day log %s: %w", d.Date, err)
	}
	return nil
}

func (r *Repo) TouchDayLog(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx, "day log", id, "UPDATE day_logs SET updated_at = ? WHERE id = ?", formatTime(at), id)
}
