package cli

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/puzzle"
	"github.com/vytor/mathflash/internal/session"
)

func seeded() *puzzle.Generator {
	return puzzle.NewGenerator(puzzle.WithRand(rand.New(rand.NewPCG(11, 12))))
}

type recorder struct {
	saved []models.SessionSummary
	err   error
}

func (r *recorder) save(_ context.Context, s models.SessionSummary) error {
	r.saved = append(r.saved, s)
	return r.err
}

func TestRunPlay_AllCorrectClimbsToHard(t *testing.T) {
	// A twin generator with the same seed replays the puzzles the session will draw.
	twin := seeded()
	var answers []string
	for _, d := range []models.Difficulty{models.Easy, models.Easy, models.Medium, models.Hard, models.Hard} {
		answers = append(answers, strconv.Itoa(twin.Generate(d).Answer))
	}

	var out bytes.Buffer
	rec := &recorder{}
	opts := session.Options{PlayerName: "ana", StartingDifficulty: models.Easy, PuzzleCount: 5}

	summary, err := runPlay(context.Background(), strings.NewReader(strings.Join(answers, "\n")+"\n"), &out, opts, seeded(), rec.save)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Stats.CorrectCount)
	assert.Equal(t, models.Hard, summary.FinalDifficulty)
	require.Len(t, rec.saved, 1)
	assert.Equal(t, summary.SessionID, rec.saved[0].SessionID)

	text := out.String()
	assert.Contains(t, text, "Great work! Moving to Medium")
	assert.Contains(t, text, "Great work! Moving to Hard")
	assert.Contains(t, text, "Score:         5/5 (100.0%)")
	assert.Contains(t, text, "Difficulty:    Easy -> Hard")
	assert.Contains(t, text, "Result saved.")
}

func TestRunPlay_SkipsAndInvalidInput(t *testing.T) {
	var out bytes.Buffer
	opts := session.Options{PlayerName: "ana", StartingDifficulty: models.Easy, PuzzleCount: 5}

	summary, err := runPlay(context.Background(), strings.NewReader("twelve\ns\ns\nskip\ns\ns\n"), &out, opts, seeded(), nil)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Stats.TotalAttempts)
	assert.Equal(t, 0, summary.Stats.CorrectCount)
	assert.Equal(t, models.Easy, summary.FinalDifficulty)
	assert.Empty(t, summary.Changes)

	text := out.String()
	assert.Contains(t, text, "Please enter a whole number.")
	assert.Equal(t, 5, strings.Count(text, "Not quite"))
	assert.NotContains(t, text, "Result saved.")
}

func TestRunPlay_QuitEarly(t *testing.T) {
	var out bytes.Buffer
	rec := &recorder{}
	opts := session.Options{PlayerName: "ana", StartingDifficulty: models.Medium, PuzzleCount: 10}

	summary, err := runPlay(context.Background(), strings.NewReader("s\nq\n"), &out, opts, seeded(), rec.save)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Stats.TotalAttempts)
	assert.Len(t, rec.saved, 1)
	assert.Contains(t, out.String(), "Session complete")
}

func TestRunPlay_NothingAnsweredIsNotSaved(t *testing.T) {
	var out bytes.Buffer
	rec := &recorder{}
	opts := session.Options{PlayerName: "ana", StartingDifficulty: models.Medium, PuzzleCount: 10}

	_, err := runPlay(context.Background(), strings.NewReader(""), &out, opts, seeded(), rec.save)
	require.NoError(t, err)

	assert.Empty(t, rec.saved)
	assert.Contains(t, out.String(), "No puzzles answered.")
}

func TestRunPlay_SaveFailure(t *testing.T) {
	var out bytes.Buffer
	rec := &recorder{err: errors.New("disk full")}
	opts := session.Options{PlayerName: "ana", StartingDifficulty: models.Medium, PuzzleCount: 5}

	_, err := runPlay(context.Background(), strings.NewReader("s\nq\n"), &out, opts, seeded(), rec.save)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Could not save your result: disk full")
}

func TestRunPlay_InvalidOptions(t *testing.T) {
	var out bytes.Buffer
	_, err := runPlay(context.Background(), strings.NewReader(""), &out, session.Options{PlayerName: "ana", PuzzleCount: 2}, seeded(), nil)
	assert.ErrorIs(t, err, session.ErrInvalidOptions)
}
