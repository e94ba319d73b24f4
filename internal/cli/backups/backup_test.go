package backups

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/routineos/internal/testutil"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func backupFiles(t *testing.T, env *testutil.Env) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(filepath.Dir(env.DBPath), "backups"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestBackupCreateAndList(t *testing.T) {
	env := testutil.NewEnv(t, now)

	require.NoError(t, (&BackupListCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "No backups found.")

	require.NoError(t, (&BackupCreateCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "Backup created: routineos-20260302-090000.db")

	require.NoError(t, (&BackupListCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Available backups (1 total")
	assert.Contains(t, out, "2026-03-02 09:00:00")
}

func TestBackupRestore(t *testing.T) {
	env := testutil.NewEnv(t, now)
	env.AddBlock(t, "walk", 20)
	require.NoError(t, (&BackupCreateCmd{}).Run(env.Ctx))
	env.AddBlock(t, "read", 30)
	env.Clock.Advance(time.Minute)

	err := (&BackupRestoreCmd{BackupFile: "routineos-20260302-090000.db"}).Run(env.Ctx)
	assert.ErrorContains(t, err, "--yes")

	cmd := &BackupRestoreCmd{BackupFile: "routineos-20260302-090000.db", Yes: true}
	require.NoError(t, cmd.Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Previous database saved as routineos-20260302-090100.db")
	assert.Contains(t, out, "Database restored.")
	assert.Len(t, backupFiles(t, env), 2)

	require.NoError(t, env.Ctx.Open())
	blocks, err := env.Ctx.Service.ListBlocks(env.Ctx.Ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "walk", blocks[0].Slug)
}

func TestBackupRestore_Missing(t *testing.T) {
	env := testutil.NewEnv(t, now)
	err := (&BackupRestoreCmd{BackupFile: "nope.db", Yes: true}).Run(env.Ctx)
	assert.ErrorContains(t, err, "backup file not found")
}
