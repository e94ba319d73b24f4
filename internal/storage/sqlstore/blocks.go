package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/storage"
)

const blockColumns = `id, slug, label, icon, color, category, default_duration_min, sort_order,
	days_of_week, is_anchor, anchor_time, is_skippable, cut_priority, created_at, updated_at`

func scanBlock(row scanner) (models.Block, error) {
	var (
		b                     models.Block
		category, days        string
		isAnchor, isSkippable int
		anchorTime            sql.NullString
		createdAt, updatedAt  string
	)
	if err := row.Scan(&b.ID, &b.Slug, &b.Label, &b.Icon, &b.Color, &category,
		&b.DefaultDurationMin, &b.Order, &days, &isAnchor, &anchorTime, &isSkippable,
		&b.CutPriority, &createdAt, &updatedAt); err != nil {
		return models.Block{}, err
	}

	b.Category = models.BlockCategory(category)
	b.IsAnchor = isAnchor != 0
	b.IsSkippable = isSkippable != 0
	b.AnchorTime = anchorTime.String
	if err := json.Unmarshal([]byte(days), &b.DaysOfWeek); err != nil {
		return models.Block{}, fmt.Errorf("decoding days_of_week of block %s: %w", b.ID, err)
	}

	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Block{}, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Block{}, err
	}
	return b, nil
}

func blockArgs(b models.Block) ([]any, error) {
	days := b.DaysOfWeek
	if days == nil {
		days = []time.Weekday{}
	}
	encoded, err := json.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("encoding days_of_week of block %s: %w", b.ID, err)
	}
	var anchor any
	if b.AnchorTime != "" {
		anchor = b.AnchorTime
	}
	return []any{
		b.Slug, b.Label, b.Icon, b.Color, string(b.Category), b.DefaultDurationMin, b.Order,
		string(encoded), boolToInt(b.IsAnchor), anchor, boolToInt(b.IsSkippable), b.CutPriority,
		formatTime(b.CreatedAt), formatTime(b.UpdatedAt),
	}, nil
}

func (r *Repo) getBlock(ctx context.Context, where string, arg any) (models.Block, error) {
	b, err := scanBlock(r.queryRow(ctx, "SELECT "+blockColumns+" FROM blocks WHERE "+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Block{}, fmt.Errorf("block %v: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return models.Block{}, fmt.Errorf("loading block %v: %w", arg, err)
	}
	return b, nil
}

func (r *Repo) GetBlock(ctx context.Context, id string) (models.Block, error) {
	return r.getBlock(ctx, "id = ?", id)
}

func (r *Repo) GetBlockBySlug(ctx context.Context, slug string) (models.Block, error) {
	return r.getBlock(ctx, "slug = ? ORDER BY sort_order, id LIMIT 1", slug)
}

func (r *Repo) ListBlocks(ctx context.Context) ([]models.Block, error) {
	rows, err := r.query(ctx, "SELECT "+blockColumns+" FROM blocks ORDER BY sort_order, id")
	if err != nil {
		return nil, fmt.Errorf("listing blocks: %w", err)
	}
	defer rows.Close()

	var blocks []models.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("listing blocks: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (r *Repo) CountBlocks(ctx context.Context) (int, error) {
	var n int
	if err := r.queryRow(ctx, "SELECT count(*) FROM blocks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting blocks: %w", err)
	}
	return n, nil
}

func (r *Repo) AddBlocks(ctx context.Context, blocks ...models.Block) error {
	for _, b := range blocks {
		args, err := blockArgs(b)
		if err != nil {
			return err
		}
		if _, err := r.exec(ctx, "INSERT INTO blocks ("+blockColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			append([]any{b.ID}, args...)...); err != nil {
			return fmt.Errorf("adding block %s: %w", b.ID, err)
		}
	}
	return nil
}

func (r *Repo) UpdateBlock(ctx context.Context, b models.Block) error {
	args, err := blockArgs(b)
	if err != nil {
		return err
	}
	return r.execOne(ctx, "block", b.ID, `UPDATE blocks SET slug = ?, label = ?, icon = ?, color = ?, category = ?,
		default_duration_min = ?, sort_order = ?, days_of_week = ?, is_anchor = ?, anchor_time = ?,
		is_skippable = ?, cut_priority = ?, created_at = ?, updated_at = ? WHERE id = ?`,
		append(args, b.ID)...)
}

func (r *Repo) UpdateBlockOrders(ctx context.Context, updates []storage.OrderUpdate, updatedAt time.Time) error {
	ts := formatTime(updatedAt)
	for _, u := range updates {
		if _, err := r.exec(ctx, "UPDATE blocks SET sort_order = ?, updated_at = ? WHERE id = ?", u.Order, ts, u.ID); err != nil {
			return fmt.Errorf("reordering block %s: %w", u.ID, err)
		}
	}
	return nil
}

func (r *Repo) DeleteBlock(ctx context.Context, id string) error {
	if _, err := r.exec(ctx, "DELETE FROM blocks WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting block %s: %w", id, err)
	}
	return nil
}
