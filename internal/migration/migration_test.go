package migration

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/routineos/migrations"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrations(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql":  {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
		"002_more.sql":  {Data: []byte("CREATE TABLE b (id INTEGER PRIMARY KEY); CREATE TABLE c (id INTEGER);")},
		"README.md":     {Data: []byte("ignored")},
		"old/003_x.sql": {Data: []byte("ignored too")},
	})

	var logs []string
	applied, err := runner.ApplyMigrations(ctx, func(s string) { logs = append(logs, s) })
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.NotEmpty(t, logs)

	version, err := runner.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// second run is a no-op
	applied, err = runner.ApplyMigrations(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	for _, table := range []string{"a", "b", "c"} {
		var n int
		require.NoError(t, db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&n))
		assert.Equal(t, 1, n, "table %s", table)
	}
}

func TestApplyMigrations_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	runner := NewRunner(db, fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE b (id INTEGER); THIS IS NOT SQL;")},
	})

	applied, err := runner.ApplyMigrations(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, 1, applied)

	version, err := runner.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestReadMigrationFiles_Invalid(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"no underscore":     {"001.sql": {Data: []byte("")}},
		"non numeric":       {"abc_init.sql": {Data: []byte("")}},
		"zero version":      {"000_init.sql": {Data: []byte("")}},
		"duplicate version": {"001_a.sql": {Data: []byte("")}, "01_b.sql": {Data: []byte("")}},
	}
	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewRunner(nil, fsys).ReadMigrationFiles()
			assert.Error(t, err)
		})
	}
}

func TestValidateVersion_NewerDatabase(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	runner := NewRunner(db, fstest.MapFS{"001_init.sql": {Data: []byte("SELECT 1;")}})

	require.NoError(t, runner.EnsureSchemaVersionTable(ctx))
	_, err := db.Exec("INSERT INTO schema_version (version) VALUES (5)")
	require.NoError(t, err)

	err = runner.ValidateVersion(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, dialect := range []string{"sqlite", "postgres"} {
		t.Run(dialect, func(t *testing.T) {
			sub, err := fs.Sub(migrations.FS, dialect)
			require.NoError(t, err)
			ms, err := NewRunner(nil, sub).ReadMigrationFiles()
			require.NoError(t, err)
			require.NotEmpty(t, ms)
			assert.Equal(t, 1, ms[0].Version)
		})
	}

	ctx := context.Background()
	sub, err := fs.Sub(migrations.FS, "sqlite")
	require.NoError(t, err)
	_, err = NewRunner(openTestDB(t), sub).ApplyMigrations(ctx, nil)
	require.NoError(t, err)
}
