package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_quota.sql", "0001_core.sql", "README.md", "0003_wallet.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0000_dir.sql"), 0o755))

	names, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_core.sql", "0002_quota.sql", "0003_wallet.sql"}, names)
}

func TestMigrationFiles_ShippedMigrations(t *testing.T) {
	names, err := migrationFiles("../../migrations")
	require.NoError(t, err)
	assert.NotEmpty(t, names)
	assert.Equal(t, "0001_core.sql", names[0])
}

func TestMigrationFiles_MissingDir(t *testing.T) {
	_, err := migrationFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestPoolOptions_Defaults(t *testing.T) {
	opts := PoolOptions{MaxOpenConns: 7}.withDefaults()
	assert.Equal(t, 7, opts.MaxOpenConns)
	assert.Equal(t, 10, opts.MaxIdleConns)
	assert.NotZero(t, opts.ConnMaxLifetime)
}
