package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathflash/internal/db"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	ctx := context.Background()

	database, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, database.Ping(ctx))

	var tables int
	err = database.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('practice_results', 'result_operations', 'result_difficulty_changes')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 3, tables)
	require.NoError(t, database.Close())

	reopened, err := db.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	var applied int
	require.NoError(t, reopened.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}
