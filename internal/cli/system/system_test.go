package system

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/routineos/internal/backup"
	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/config"
	"github.com/julianstephens/routineos/internal/routine"
	"github.com/julianstephens/routineos/internal/seed"
	"github.com/julianstephens/routineos/internal/storage"
	"github.com/julianstephens/routineos/internal/storage/sqlite"
	"github.com/julianstephens/routineos/internal/testutil"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func anchor(at string) func(*routine.SaveBlockInput) {
	return func(in *routine.SaveBlockInput) {
		in.IsAnchor = true
		in.AnchorTime = at
	}
}

func TestInitCmd_Seeds(t *testing.T) {
	env := testutil.NewEnv(t, now, routine.WithSeed(seed.Default))

	require.NoError(t, (&InitCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Initialized routineos storage at: "+env.DBPath)
	assert.Contains(t, out, "Added the default routine")

	require.NoError(t, (&InitCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "left it unchanged")
}

func TestInitCmd_NoSeed(t *testing.T) {
	env := testutil.NewEnv(t, now, routine.WithSeed(seed.Default))

	require.NoError(t, (&InitCmd{NoSeed: true}).Run(env.Ctx))
	n, err := env.Store.CountBlocks(env.Ctx.Ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInitCmd_Force(t *testing.T) {
	env := testutil.NewEnv(t, now)
	env.AddBlock(t, "walk", 20)

	require.NoError(t, (&InitCmd{Force: true, NoSeed: true}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "Deleted existing database at: "+env.DBPath)

	n, err := env.Store.CountBlocks(env.Ctx.Ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInitCmd_FreshDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "routineos.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { store.Close() })
	ctx := cli.NewContext(config.Config{Database: dbPath, Timezone: "UTC"}, store, routine.WithSeed(testutil.NoSeed))
	ctx.Out = &discard{}

	require.NoError(t, (&InitCmd{Force: true}).Run(ctx))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestMigrateCmd_UpToDate(t *testing.T) {
	env := testutil.NewEnv(t, now)
	require.NoError(t, (&MigrateCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "Database is up to date.")
}

func TestMigrateCmd_NotInitialized(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"))
	ctx := cli.NewContext(config.Config{Timezone: "UTC"}, store)
	ctx.Out = &discard{}
	assert.ErrorIs(t, (&MigrateCmd{}).Run(ctx), sqlite.ErrNotInitialized)
}

func TestValidateCmd(t *testing.T) {
	env := testutil.NewEnv(t, now)
	env.AddBlock(t, "wake", 10, anchor("08:00"))
	env.AddBlock(t, "walk", 20)

	require.NoError(t, (&ValidateCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "No conflicts detected.")

	env.AddBlock(t, "early", 10, anchor("07:00"))
	err := (&ValidateCmd{}).Run(env.Ctx)
	assert.EqualError(t, err, "catalog has conflicts")
	out := env.Output()
	assert.Contains(t, out, "Conflicts detected:")
	assert.Contains(t, out, `anchor "Early" (07:00) comes after "Wake" (08:00)`)
}

func TestDoctorCmd(t *testing.T) {
	env := testutil.NewEnv(t, now)
	env.AddBlock(t, "walk", 20)

	require.NoError(t, (&DoctorCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "✓ Database reachable: OK")
	assert.Contains(t, out, "✓ Schema version: OK")
	assert.Contains(t, out, "⚠ Backups present: WARNING")
	assert.Contains(t, out, "✓ Catalog validation: OK")
	assert.Contains(t, out, "All diagnostics passed!")

	_, err := backup.NewManager(env.DBPath).Create(env.Ctx.Ctx)
	require.NoError(t, err)
	require.NoError(t, (&DoctorCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "✓ Backups present: OK")
}

func TestDoctorCmd_Failures(t *testing.T) {
	t.Run("conflicting catalog", func(t *testing.T) {
		env := testutil.NewEnv(t, now)
		env.AddBlock(t, "wake", 10, anchor("08:00"))
		env.AddBlock(t, "early", 10, anchor("07:00"))

		assert.Error(t, (&DoctorCmd{}).Run(env.Ctx))
		out := env.Output()
		assert.Contains(t, out, "❌ Catalog validation: FAIL")
		assert.Contains(t, out, "Diagnostics completed with errors.")
	})

	t.Run("missing database", func(t *testing.T) {
		store := sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"))
		env := testutil.NewEnv(t, now)
		ctx := cli.NewContext(config.Config{Timezone: "UTC"}, store)
		ctx.Out = env.Out
		ctx.Now = env.Clock.Now

		assert.Error(t, (&DoctorCmd{}).Run(ctx))
		out := env.Output()
		assert.Contains(t, out, "❌ Database reachable: FAIL")
		assert.Contains(t, out, "⊘ Schema version: SKIPPED")
		assert.Contains(t, out, "✓ Clock/timezone: OK")
	})
}

func TestDebugCmds(t *testing.T) {
	env := testutil.NewEnv(t, now)
	env.AddBlock(t, "walk", 20)

	require.NoError(t, (&DebugDBPathCmd{}).Run(env.Ctx))
	var path map[string]string
	require.NoError(t, json.Unmarshal([]byte(env.Output()), &path))
	assert.Equal(t, env.DBPath, path["path"])

	err := (&DebugDumpDayCmd{}).Run(env.Ctx)
	assert.ErrorContains(t, err, "no day record for 2026-03-02")

	_, err = env.Ctx.Service.GetOrCreateDayView(env.Ctx.Ctx, "2026-03-02")
	require.NoError(t, err)
	require.NoError(t, (&DebugDumpDayCmd{Date: "today"}).Run(env.Ctx))
	var day map[string]any
	require.NoError(t, json.Unmarshal([]byte(env.Output()), &day))
	assert.Contains(t, day, "day_log")
	assert.Len(t, day["items"], 1)

	require.NoError(t, (&DebugDumpBlockCmd{Slug: "walk"}).Run(env.Ctx))
	assert.Contains(t, env.Output(), `"slug": "walk"`)
	assert.ErrorIs(t, (&DebugDumpBlockCmd{Slug: "swim"}).Run(env.Ctx), storage.ErrNotFound)

	require.NoError(t, (&DebugDumpSettingsCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), `"default_view_mode": "focus"`)
}

func TestFocusCmd_FallsBackWithoutTerminal(t *testing.T) {
	env := testutil.NewEnv(t, now)
	env.AddBlock(t, "walk", 20)

	require.NoError(t, (&FocusCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Monday, 2026-03-02")
	assert.Contains(t, out, "Walk")
}
