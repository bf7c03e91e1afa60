package adaptive_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathflash/internal/adaptive"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/tracker"
)

func window(results ...bool) []models.Attempt {
	out := make([]models.Attempt, len(results))
	for i, ok := range results {
		out[i] = models.Attempt{IsCorrect: ok, TimeSpentSeconds: 4}
	}
	return out
}

func withTimes(attempts []models.Attempt, seconds ...float64) []models.Attempt {
	for i := range attempts {
		attempts[i].TimeSpentSeconds = seconds[i]
	}
	return attempts
}

func TestAdapt_InsufficientData(t *testing.T) {
	for _, w := range [][]models.Attempt{nil, window(true)} {
		e := adaptive.NewEngine()
		d, err := e.Adapt(w, models.Medium)
		require.NoError(t, err)

		assert.Equal(t, models.Medium, d.Next)
		assert.False(t, d.Changed)
		assert.Empty(t, e.History())
	}
}

func TestAdapt_Promotes(t *testing.T) {
	tests := []struct {
		name    string
		current models.Difficulty
		want    models.Difficulty
	}{
		{"easy to medium", models.Easy, models.Medium},
		{"medium to hard", models.Medium, models.Hard},
		{"hard stays hard", models.Hard, models.Hard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := adaptive.NewEngine()
			d, err := e.Adapt(window(true, true, true), tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Next)
			assert.Equal(t, tt.current != tt.want, d.Changed)
		})
	}
}

func TestAdapt_Demotes(t *testing.T) {
	tests := []struct {
		name    string
		current models.Difficulty
		want    models.Difficulty
	}{
		{"medium to easy", models.Medium, models.Easy},
		{"hard to medium", models.Hard, models.Medium},
		{"easy stays easy", models.Easy, models.Easy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := adaptive.NewEngine()
			d, err := e.Adapt(window(false, false, true), tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Next)
			assert.Equal(t, 1, d.CorrectCount)
		})
	}
}

func TestAdapt_SlowButAccurateHolds(t *testing.T) {
	e := adaptive.NewEngine()
	w := withTimes(window(true, false, true), 8, 9, 7)

	d, err := e.Adapt(w, models.Medium)
	require.NoError(t, err)

	assert.Equal(t, models.Medium, d.Next)
	assert.False(t, d.Changed)
	assert.Equal(t, "Staying at Medium level", d.Reason)
	assert.Empty(t, e.History())
}

func TestAdapt_AverageExactlyAtThresholdDoesNotPromote(t *testing.T) {
	d, err := adaptive.Decide(withTimes(window(true, true, true), 8, 8, 8), models.Easy)
	require.NoError(t, err)
	assert.Equal(t, models.Easy, d.Next)
}

func TestAdapt_TwoAttemptWindow(t *testing.T) {
	d, err := adaptive.Decide(window(true, true), models.Easy)
	require.NoError(t, err)
	assert.Equal(t, models.Medium, d.Next)

	d, err = adaptive.Decide(window(true, false), models.Hard)
	require.NoError(t, err)
	assert.Equal(t, models.Medium, d.Next, "one of two correct is struggling")
}

func TestAdapt_InvalidDifficulty(t *testing.T) {
	e := adaptive.NewEngine()
	_, err := e.Adapt(window(true, true, true), models.Difficulty(5))

	assert.ErrorIs(t, err, models.ErrInvalidDifficulty)
	assert.Empty(t, e.History())
}

func TestAdapt_NeverJumpsTwoTiers(t *testing.T) {
	e := adaptive.NewEngine()
	perfect := withTimes(window(true, true, true), 0.5, 0.5, 0.5)

	d, err := e.Adapt(perfect, models.Easy)
	require.NoError(t, err)
	assert.Equal(t, models.Medium, d.Next)

	d, err = e.Adapt(perfect, d.Next)
	require.NoError(t, err)
	assert.Equal(t, models.Hard, d.Next)
}

func TestAdapt_ReasonText(t *testing.T) {
	d, err := adaptive.Decide(window(true, true, false), models.Easy)
	require.NoError(t, err)
	assert.Equal(t, "Great work! Moving to Medium (accuracy: 2/3)", d.Reason)

	d, err = adaptive.Decide(window(false, false, false), models.Hard)
	require.NoError(t, err)
	assert.Equal(t, "Let's try Medium level (accuracy: 0/3)", d.Reason)
}

func TestHistory_RecordsChangesInOrder(t *testing.T) {
	e := adaptive.NewEngine()
	steps := []struct {
		w       []models.Attempt
		current models.Difficulty
	}{
		{window(true, true, true), models.Easy},
		{withTimes(window(true, true, false), 9, 9, 9), models.Medium},
		{window(false, false, false), models.Medium},
		{window(false, false, false), models.Easy},
		{withTimes(window(true, true, true), 1.111, 2.222, 3.334), models.Easy},
	}
	for _, s := range steps {
		_, err := e.Adapt(s.w, s.current)
		require.NoError(t, err)
	}

	history := e.History()
	require.Len(t, history, 3)
	assert.Equal(t, models.Easy, history[0].From)
	assert.Equal(t, models.Medium, history[0].To)
	assert.Equal(t, models.Medium, history[1].From)
	assert.Equal(t, models.Easy, history[1].To)
	assert.Equal(t, 0, history[1].CorrectCount)
	assert.Equal(t, 3, history[1].TotalAttempts)
	assert.Equal(t, 2.22, history[2].AverageTimeSeconds)
	for _, ev := range history {
		assert.NotEqual(t, ev.From, ev.To)
	}
	assert.Equal(t, models.Medium, e.Current())

	e.Reset()
	assert.Empty(t, e.History())
}

func TestExplain(t *testing.T) {
	assert.Equal(t, "Building your performance profile... Keep going!", adaptive.Explain(window(true)))

	excellent := adaptive.Explain(window(true, true, false))
	assert.Contains(t, excellent, "Correct: 2/3")
	assert.Contains(t, excellent, "Average Time: 4.0s")
	assert.Contains(t, excellent, "excellent")

	assert.Contains(t, adaptive.Explain(window(false, true, false)), "building confidence")
	assert.Contains(t, adaptive.Explain(withTimes(window(true, true, true), 10, 10, 10)), "perfect difficulty level")
}

func TestEndToEnd_ThreeFastCorrectAnswersPromoteFromMedium(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tr := tracker.New(tracker.WithClock(func() time.Time { return now }))
	e := adaptive.NewEngine()
	p := models.Puzzle{Question: "3 × 4", Answer: 12, Difficulty: models.Medium, Operation: models.Multiply}

	tr.StartSession()
	var d adaptive.Decision
	for _, seconds := range []int{3, 4, 5} {
		now = now.Add(time.Duration(seconds) * time.Second)
		_, err := tr.LogAttempt(p, 12, true)
		require.NoError(t, err)

		var adaptErr error
		d, adaptErr = adaptive.Decide(tr.RecentPerformance(adaptive.WindowSize), models.Medium)
		require.NoError(t, adaptErr)
	}

	final, err := e.Adapt(tr.RecentPerformance(adaptive.WindowSize), models.Medium)
	require.NoError(t, err)
	assert.Equal(t, d, final, "Decide and Adapt agree")
	assert.Equal(t, models.Hard, final.Next)
	assert.Equal(t, 3, final.CorrectCount)
	assert.Equal(t, 4.0, final.AverageTimeSeconds)

	history := e.History()
	require.Len(t, history, 1)
	assert.Equal(t, 4.0, history[0].AverageTimeSeconds)
}
