package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/services"
	"github.com/vytor/mathflash/internal/testutil/mocks"
	"gopkg.in/yaml.v3"
)

func resultFixture() []models.PracticeResult {
	return []models.PracticeResult{{
		ID:                 3,
		PlayerName:         "ana",
		StartingDifficulty: models.Easy,
		FinalDifficulty:    models.Hard,
		TotalAttempts:      10,
		CorrectCount:       9,
		Accuracy:           90,
		AverageTimeSeconds: 3.25,
		CompletedAt:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}}
}

func TestRunResults_Table(t *testing.T) {
	repo := new(mocks.MockResultRepository)
	filter := models.ResultFilter{PlayerName: "ana", Limit: 20}
	repo.On("List", mock.Anything, filter).Return(resultFixture(), nil)
	repo.On("Count", mock.Anything, filter).Return(1, nil)

	var out bytes.Buffer
	err := runResults(context.Background(), &out, services.NewResultService(repo), resultsQuery{Player: "ana", Limit: 20, Format: "table"})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Player")
	assert.Contains(t, text, "9/10")
	assert.Contains(t, text, "90.0%")
	assert.Contains(t, text, "1 of 1 results")
}

func TestRunResults_JSONAndYAML(t *testing.T) {
	repo := new(mocks.MockResultRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(resultFixture(), nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(1, nil)
	svc := services.NewResultService(repo)

	var out bytes.Buffer
	require.NoError(t, runResults(context.Background(), &out, svc, resultsQuery{Limit: 5, Format: "json"}))
	var rows []resultRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Hard", rows[0].Final)

	out.Reset()
	require.NoError(t, runResults(context.Background(), &out, svc, resultsQuery{Limit: 5, Format: "yaml"}))
	rows = nil
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "9/10", rows[0].Score)
}

func TestRunResults_Best(t *testing.T) {
	repo := new(mocks.MockResultRepository)
	repo.On("BestByDifficulty", mock.Anything, "ana").Return([]models.BestResult{
		{FinalDifficulty: models.Medium, Accuracy: 70, Sessions: 2},
		{FinalDifficulty: models.Hard, Accuracy: 95, Sessions: 4},
	}, nil)

	var out bytes.Buffer
	require.NoError(t, runResults(context.Background(), &out, services.NewResultService(repo), resultsQuery{Player: "ana", Best: true, Format: "json"}))

	var rows []bestRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 95.0, rows[1].Accuracy)
	assert.Equal(t, 4, rows[1].Sessions)
}

func TestRunResults_Errors(t *testing.T) {
	svc := services.NewResultService(new(mocks.MockResultRepository))
	var out bytes.Buffer

	assert.Error(t, runResults(context.Background(), &out, svc, resultsQuery{Format: "xml"}))
	assert.Error(t, runResults(context.Background(), &out, svc, resultsQuery{Best: true, Format: "table"}), "best needs a player")
}
