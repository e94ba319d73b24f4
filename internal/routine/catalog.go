package routine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/logger"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/storage"
	"github.com/julianstephens/routineos/internal/validation"
)

// SaveBlockInput is the user-editable part of a block. Every field is
// normalized on save rather than rejected.
type SaveBlockInput struct {
	Slug               string
	Label              string
	Icon               string
	Color              string
	Category           models.BlockCategory
	DefaultDurationMin float64
	DaysOfWeek         []int
	IsAnchor           bool
	AnchorTime         string
	IsSkippable        bool
	CutPriority        float64
}

// InputFromBlock returns the editable fields of b, for edits that only
// change some of them.
func InputFromBlock(b models.Block) SaveBlockInput {
	days := make([]int, len(b.DaysOfWeek))
	for i, d := range b.DaysOfWeek {
		days[i] = int(d)
	}
	return SaveBlockInput{
		Slug:               b.Slug,
		Label:              b.Label,
		Icon:               b.Icon,
		Color:              b.Color,
		Category:           b.Category,
		DefaultDurationMin: float64(b.DefaultDurationMin),
		DaysOfWeek:         days,
		IsAnchor:           b.IsAnchor,
		AnchorTime:         b.AnchorTime,
		IsSkippable:        b.IsSkippable,
		CutPriority:        float64(b.CutPriority),
	}
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection converts "up" or "down" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(s)); d {
	case Up, Down:
		return d, nil
	}
	return "", fmt.Errorf("invalid direction %q (expected up or down)", s)
}

// applyInput writes the sanitized input onto b. The slug is handled by the
// caller since it depends on the rest of the catalog.
func applyInput(b *models.Block, in SaveBlockInput) {
	b.Label = strings.TrimSpace(in.Label)
	b.Icon = validation.SanitizeIcon(in.Icon)
	b.Color = validation.SanitizeColor(in.Color)
	b.Category = sanitizeCategory(in.Category, in.IsAnchor)
	b.DefaultDurationMin = validation.SanitizeDuration(in.DefaultDurationMin)
	b.DaysOfWeek = validation.SanitizeDays(in.DaysOfWeek)
	b.IsAnchor = in.IsAnchor
	b.AnchorTime = validation.SanitizeAnchorTime(in.IsAnchor, in.AnchorTime)
	b.IsSkippable = in.IsSkippable
	b.CutPriority = validation.SanitizeCutPriority(in.CutPriority)
}

func sanitizeCategory(c models.BlockCategory, isAnchor bool) models.BlockCategory {
	if c.Valid() {
		return c
	}
	if isAnchor {
		return models.CategoryAnchor
	}
	return models.CategorySequence
}

func slugsExcept(blocks []models.Block, id string) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.ID != id {
			out = append(out, b.Slug)
		}
	}
	return out
}

func nextOrder(blocks []models.Block) int {
	if len(blocks) == 0 {
		return 0
	}
	top := math.MinInt
	for _, b := range blocks {
		top = max(top, b.Order)
	}
	return top + constants.BlockOrderStep
}

// ListBlocks returns the catalog ordered by Order.
func (s *Service) ListBlocks(ctx context.Context) ([]models.Block, error) {
	blocks, err := s.store.ListBlocks(ctx)
	return blocks, wrap("loading blocks", err)
}

// GetBlockBySlug looks up a block. A missing slug returns storage.ErrNotFound.
func (s *Service) GetBlockBySlug(ctx context.Context, slug string) (models.Block, error) {
	b, err := s.store.GetBlockBySlug(ctx, slug)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Block{}, fmt.Errorf("no block with slug %q: %w", slug, storage.ErrNotFound)
	}
	return b, wrap("loading block", err)
}

// CreateBlock appends a block to the end of the catalog.
func (s *Service) CreateBlock(ctx context.Context, in SaveBlockInput) (models.Block, error) {
	var created models.Block
	err := s.store.WithTx(ctx, func(r storage.Repository) error {
		blocks, err := r.ListBlocks(ctx)
		if err != nil {
			return err
		}
		now := s.now()
		created = models.Block{
			ID:        s.newID(),
			Slug:      validation.UniqueSlug(in.Slug, slugsExcept(blocks, "")),
			Order:     nextOrder(blocks),
			CreatedAt: now,
			UpdatedAt: now,
		}
		applyInput(&created, in)
		return r.AddBlocks(ctx, created)
	})
	if err != nil {
		return models.Block{}, wrap("creating block", err)
	}
	logger.Debug("block created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// UpdateBlock replaces the editable fields of a block. A missing block is
// ignored and reported as false.
func (s *Service) UpdateBlock(ctx context.Context, id string, in SaveBlockInput) (models.Block, bool, error) {
	var (
		updated models.Block
		found   bool
	)
	err := s.store.WithTx(ctx, func(r storage.Repository) error {
		current, err := r.GetBlock(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		blocks, err := r.ListBlocks(ctx)
		if err != nil {
			return err
		}

		updated = current
		updated.Slug = validation.UniqueSlug(in.Slug, slugsExcept(blocks, id))
		applyInput(&updated, in)
		updated.UpdatedAt = s.now()
		found = true
		return r.UpdateBlock(ctx, updated)
	})
	if err != nil {
		return models.Block{}, false, wrap("updating block", err)
	}
	return updated, found, nil
}

// DeleteBlock removes a block from the catalog. Entries already recorded for
// it stay in their day logs.
func (s *Service) DeleteBlock(ctx context.Context, id string) error {
	return wrap("deleting block", s.store.DeleteBlock(ctx, id))
}

// MoveBlock swaps a block with its neighbour and renumbers the catalog in
// steps of ten. Unknown blocks and moves past either end do nothing.
func (s *Service) MoveBlock(ctx context.Context, id string, dir Direction) error {
	err := s.store.WithTx(ctx, func(r storage.Repository) error {
		blocks, err := r.ListBlocks(ctx)
		if err != nil {
			return err
		}

		from := -1
		for i, b := range blocks {
			if b.ID == id {
				from = i
				break
			}
		}
		if from < 0 {
			return nil
		}
		to := from + 1
		if dir == Up {
			to = from - 1
		}
		if to < 0 || to >= len(blocks) {
			return nil
		}

		blocks[from], blocks[to] = blocks[to], blocks[from]
		updates := make([]storage.OrderUpdate, len(blocks))
		for i, b := range blocks {
			updates[i] = storage.OrderUpdate{ID: b.ID, Order: i * constants.BlockOrderStep}
		}
		return r.UpdateBlockOrders(ctx, updates, s.now())
	})
	return wrap("moving block", err)
}

// EnsureSeeded installs the default routine when the catalog is empty and
// reports whether it did.
func (s *Service) EnsureSeeded(ctx context.Context) (bool, error) {
	n, err := s.store.CountBlocks(ctx)
	if err != nil {
		return false, wrap("counting blocks", err)
	}
	if n > 0 {
		return false, nil
	}

	blocks, err := s.seed()
	if err != nil {
		return false, fmt.Errorf("loading default routine: %w", err)
	}
	if len(blocks) == 0 {
		return false, nil
	}

	added, err := s.ImportBlocks(ctx, blocks, false)
	if err != nil {
		return false, err
	}
	logger.Info("seeded default routine", "blocks", added)
	return true, nil
}

// ImportBlocks saves blocks read from a catalog file in their given order.
// With replace the existing catalog is deleted first; otherwise the blocks
// are appended and their slugs made unique.
func (s *Service) ImportBlocks(ctx context.Context, blocks []models.Block, replace bool) (int, error) {
	err := s.store.WithTx(ctx, func(r storage.Repository) error {
		existing, err := r.ListBlocks(ctx)
		if err != nil {
			return err
		}
		if replace {
			for _, b := range existing {
				if err := r.DeleteBlock(ctx, b.ID); err != nil {
					return err
				}
			}
			existing = nil
		}

		now := s.now()
		slugs := slugsExcept(existing, "")
		order := nextOrder(existing)
		toAdd := make([]models.Block, 0, len(blocks))
		for _, src := range blocks {
			b := models.Block{
				ID:        s.newID(),
				Slug:      validation.UniqueSlug(src.Slug, slugs),
				Order:     order,
				CreatedAt: now,
				UpdatedAt: now,
			}
			applyInput(&b, InputFromBlock(src))
			slugs = append(slugs, b.Slug)
			order += constants.BlockOrderStep
			toAdd = append(toAdd, b)
		}
		if len(toAdd) == 0 {
			return nil
		}
		return r.AddBlocks(ctx, toAdd...)
	})
	if err != nil {
		return 0, wrap("importing blocks", err)
	}
	return len(blocks), nil
}
