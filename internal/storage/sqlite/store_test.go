package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "routineos.db"))
	require.NoError(t, s.Init())
	t.Cleanup(func() { s.Close() })
	return s
}

var t0 = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

func testBlock(id, slug string, order int) models.Block {
	return models.Block{
		ID: id, Slug: slug, Label: slug, Icon: "✅", Color: "#22d3ee",
		Category: models.CategorySequence, DefaultDurationMin: 15, Order: order,
		DaysOfWeek: []time.Weekday{time.Monday, time.Wednesday}, IsSkippable: true,
		CutPriority: 40, CreatedAt: t0, UpdatedAt: t0,
	}
}

func TestStore_LoadBeforeInit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := s.Load()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestStore_InitIsIdempotentAndLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routineos.db")
	s := NewStore(path)
	require.NoError(t, s.Init())
	require.NoError(t, s.Init())
	require.NoError(t, s.Close())

	s2 := NewStore(path)
	require.NoError(t, s2.Load())
	defer s2.Close()

	current, latest, err := s2.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, latest, current)
	assert.Equal(t, path, s2.GetConfigPath())
}

func TestStore_Blocks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	anchor := testBlock("b2", "wake", 0)
	anchor.IsAnchor = true
	anchor.AnchorTime = "06:30"
	anchor.Category = models.CategoryAnchor
	anchor.DaysOfWeek = models.AllWeekdays

	require.NoError(t, s.AddBlocks(ctx, testBlock("b1", "walk", 10), anchor))

	n, err := s.CountBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := s.ListBlocks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, anchor, all[0])
	assert.Equal(t, "b1", all[1].ID)

	got, err := s.GetBlockBySlug(ctx, "walk")
	require.NoError(t, err)
	assert.Equal(t, testBlock("b1", "walk", 10), got)

	got.Label = "Long walk"
	got.DefaultDurationMin = 45
	require.NoError(t, s.UpdateBlock(ctx, got))
	reloaded, err := s.GetBlock(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, got, reloaded)

	later := t0.Add(time.Hour)
	require.NoError(t, s.UpdateBlockOrders(ctx, []storage.OrderUpdate{{ID: "b1", Order: 0}, {ID: "b2", Order: 10}}, later))
	all, err = s.ListBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b1", all[0].ID)
	assert.Equal(t, later, all[0].UpdatedAt)

	require.NoError(t, s.DeleteBlock(ctx, "b1"))
	_, err = s.GetBlock(ctx, "b1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.UpdateBlock(ctx, testBlock("ghost", "ghost", 0))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_DayLogsAndEntries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	day := models.DayLog{ID: "d1", Date: "2026-01-05", CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.AddDayLog(ctx, day))
	require.NoError(t, s.AddDayLog(ctx, models.DayLog{ID: "d2", Date: "2026-01-07", CreatedAt: t0, UpdatedAt: t0}))

	got, err := s.GetDayLogByDate(ctx, "2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, day, got)

	_, err = s.GetDayLogByDate(ctx, "2026-01-06")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	logs, err := s.ListDayLogs(ctx, "2026-01-01", "2026-01-06")
	require.NoError(t, err)
	require.Len(t, logs, 1)

	touched := t0.Add(5 * time.Minute)
	require.NoError(t, s.TouchDayLog(ctx, "d1", touched))
	got, err = s.GetDayLog(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, touched, got.UpdatedAt)

	started := t0.Add(time.Minute)
	entries := []models.BlockEntry{
		{ID: "e2", DayLogID: "d1", BlockID: "b2", Order: 20, State: models.Pending{}},
		{ID: "e1", DayLogID: "d1", BlockID: "b1", Order: 10, State: models.Active{StartedAt: started}},
		{ID: "e3", DayLogID: "d1", BlockID: "b3", Order: 30, State: models.Skipped{StartedAt: &started, SkippedAt: touched}},
	}
	require.NoError(t, s.AddEntries(ctx, entries...))

	listed, err := s.ListEntries(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, []string{"e1", "e2", "e3"}, []string{listed[0].ID, listed[1].ID, listed[2].ID})
	assert.Equal(t, entries[2], listed[2])

	done := entries[1]
	done.State = models.Completed{StartedAt: started, CompletedAt: touched, DurationMin: 4, Notes: `{"x":1}`}
	require.NoError(t, s.UpdateEntries(ctx, done))
	reloaded, err := s.GetEntry(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, done, reloaded)

	require.NoError(t, s.UpdateEntryOrders(ctx, []storage.OrderUpdate{{ID: "e3", Order: 0}}))
	require.NoError(t, s.DeleteEntries(ctx, "e2"))
	listed, err = s.ListEntries(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "e3", listed[0].ID)

	_, err = s.GetEntry(ctx, "e2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_RejectsInconsistentEntryRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.AddDayLog(ctx, models.DayLog{ID: "d1", Date: "2026-01-05", CreatedAt: t0, UpdatedAt: t0}))

	_, err := s.GetDB().Exec(`INSERT INTO block_entries (id, day_log_id, block_id, status, duration_min, sort_order)
		VALUES ('bad', 'd1', 'b1', 'skipped', 10, 0)`)
	require.NoError(t, err)

	_, err = s.GetEntry(ctx, "bad")
	assert.ErrorIs(t, err, models.ErrInvalidEntryRecord)
}

func TestStore_Settings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)

	got.DefaultViewMode = "overview"
	got.Sensory.SoundVolume = 10
	require.NoError(t, s.SaveSettings(ctx, got))
	require.NoError(t, s.SaveSettings(ctx, got))

	reloaded, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, reloaded)

	// a corrupt value only resets its own field
	_, err = s.GetDB().Exec("UPDATE settings SET value = 'loud' WHERE key = 'sound_volume'")
	require.NoError(t, err)
	reloaded, err = s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.Sensory.SoundVolume)
	assert.Equal(t, "overview", reloaded.DefaultViewMode)
}

func TestStore_WithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(r storage.Repository) error {
		if err := r.AddBlocks(ctx, testBlock("b1", "walk", 0)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := s.CountBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	err = s.WithTx(ctx, func(r storage.Repository) error {
		return r.AddBlocks(ctx, testBlock("b1", "walk", 0))
	})
	require.NoError(t, err)
	n, err = s.CountBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
