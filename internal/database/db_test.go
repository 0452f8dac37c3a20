package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	dbPath := filepath.Join(t.TempDir(), "nested", "journal.db")

	require.NoError(t, RunMigrations(dbPath))
	require.NoError(t, RunMigrations(dbPath))

	v, dirty, err := Version(dbPath)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), v)

	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM swipe_sessions`).Scan(&n))
	require.Zero(t, n)
}

func TestVersionOfFreshDatabase(t *testing.T) {
	v, dirty, err := Version(filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	require.False(t, dirty)
	require.Zero(t, v)
}
