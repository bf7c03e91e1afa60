package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathflash/internal/app"
	"github.com/vytor/mathflash/internal/config"
	"github.com/vytor/mathflash/internal/db"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/repository/sqlite"
	"github.com/vytor/mathflash/internal/session"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Addr:               "127.0.0.1:0",
		DBPath:             filepath.Join(t.TempDir(), "results.db"),
		LogLevel:           "ERROR",
		DefaultDifficulty:  "Medium",
		DefaultPuzzleCount: 10,
		SessionIdleMinutes: 30,
		ArchiveWorkerCount: 1,
		ArchiveQueueSize:   8,
	}
}

func TestRun_ShutdownArchivesLiveSessions(t *testing.T) {
	cfg := testConfig(t)
	a, err := app.New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	played, err := a.Practice.StartSession(ctx, session.Options{PlayerName: "ana", StartingDifficulty: models.Easy, PuzzleCount: 5})
	require.NoError(t, err)
	_, err = a.Practice.SkipPuzzle(ctx, played.ID)
	require.NoError(t, err)

	_, err = a.Practice.StartSession(ctx, session.Options{PlayerName: "bo", StartingDifficulty: models.Hard, PuzzleCount: 5})
	require.NoError(t, err)
	require.Equal(t, 2, a.Practice.ActiveSessions())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Zero(t, a.Practice.ActiveSessions())

	database, err := db.Open(cfg.DBPath)
	require.NoError(t, err)
	defer database.Close()

	results, err := sqlite.NewResultRepository(database.DB).List(context.Background(), models.ResultFilter{})
	require.NoError(t, err)
	require.Len(t, results, 1, "only the session with an attempt is archived")
	assert.Equal(t, played.ID, results[0].SessionID)
	assert.Equal(t, "ana", results[0].PlayerName)
	assert.Equal(t, 1, results[0].TotalAttempts)
}

func TestRun_ListenError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Addr = "127.0.0.1:-1"
	a, err := app.New(cfg)
	require.NoError(t, err)

	assert.Error(t, a.Run(context.Background()))
}
