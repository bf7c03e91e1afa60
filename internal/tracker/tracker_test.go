package tracker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/tracker"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(seconds float64) {
	c.t = c.t.Add(time.Duration(seconds * float64(time.Second)))
}

func newTracker() (*tracker.Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	return tracker.New(tracker.WithClock(clock.Now)), clock
}

func puzzleFor(d models.Difficulty, op models.Operation) models.Puzzle {
	return models.Puzzle{Question: "2 + 3", Answer: 5, Difficulty: d, Operation: op, Operands: [2]int{2, 3}}
}

func TestLogAttempt_WithoutStartFails(t *testing.T) {
	tr, _ := newTracker()

	_, err := tr.LogAttempt(puzzleFor(models.Easy, models.Add), 5, true)

	assert.ErrorIs(t, err, tracker.ErrNoAttemptStarted)
	assert.Equal(t, 0, tr.Len())
}

func TestLogAttempt_TimesEachAttempt(t *testing.T) {
	tr, clock := newTracker()
	tr.StartSession()

	clock.Advance(3.456)
	a1, err := tr.LogAttempt(puzzleFor(models.Medium, models.Add), 5, true)
	require.NoError(t, err)

	clock.Advance(1.5)
	a2, err := tr.LogAttempt(puzzleFor(models.Medium, models.Add), 4, false)
	require.NoError(t, err)

	assert.Equal(t, 3.46, a1.TimeSpentSeconds)
	assert.Equal(t, 1.5, a2.TimeSpentSeconds, "timer restarts after each logged attempt")
	assert.Equal(t, "2 + 3", a1.Question)
	assert.Equal(t, 5, a1.CorrectAnswer)
	assert.Equal(t, 4, a2.UserAnswer)
	assert.False(t, a2.IsCorrect)
	assert.Equal(t, clock.Now(), a2.Timestamp)
	assert.Len(t, tr.Attempts(), 2)
}

func TestStartSession_ClearsAttempts(t *testing.T) {
	tr, clock := newTracker()
	tr.StartSession()
	clock.Advance(2)
	_, err := tr.LogAttempt(puzzleFor(models.Easy, models.Add), 5, true)
	require.NoError(t, err)

	clock.Advance(60)
	tr.StartSession()

	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, clock.Now(), tr.SessionStart())
	assert.Equal(t, models.SessionStats{}, tr.SessionStats())
}

func TestSessionStats_Empty(t *testing.T) {
	tr, _ := newTracker()
	stats := tr.SessionStats()

	assert.Equal(t, 0, stats.TotalAttempts)
	assert.Equal(t, 0, stats.CorrectCount)
	assert.Equal(t, 0.0, stats.Accuracy)
	assert.Equal(t, 0.0, stats.AverageTimeSeconds)
	assert.Equal(t, 0.0, stats.TotalTimeSeconds)
}

func TestSessionStats_Aggregates(t *testing.T) {
	tr, clock := newTracker()
	tr.StartSession()

	for _, step := range []struct {
		seconds float64
		correct bool
	}{
		{2.5, true}, {4.25, false}, {1.1, true},
	} {
		clock.Advance(step.seconds)
		_, err := tr.LogAttempt(puzzleFor(models.Easy, models.Add), 0, step.correct)
		require.NoError(t, err)
	}

	stats := tr.SessionStats()
	assert.Equal(t, 3, stats.TotalAttempts)
	assert.Equal(t, 2, stats.CorrectCount)
	assert.Equal(t, 1, stats.IncorrectCount)
	assert.Equal(t, 66.7, stats.Accuracy)
	assert.Equal(t, 7.85, stats.TotalTimeSeconds)
	assert.Equal(t, 2.62, stats.AverageTimeSeconds)
	assert.Equal(t, 1.1, stats.FastestTimeSeconds)
	assert.Equal(t, 4.25, stats.SlowestTimeSeconds)
}

func TestStats_AccuracyAndAverageMatchDefinitions(t *testing.T) {
	cases := [][]models.Attempt{
		{{IsCorrect: true, TimeSpentSeconds: 1}},
		{{IsCorrect: false, TimeSpentSeconds: 0.33}, {IsCorrect: true, TimeSpentSeconds: 0.34}},
		{{IsCorrect: true, TimeSpentSeconds: 9.99}, {IsCorrect: true, TimeSpentSeconds: 3.01}, {IsCorrect: false, TimeSpentSeconds: 7}, {IsCorrect: false, TimeSpentSeconds: 0}},
	}
	for _, attempts := range cases {
		stats := tracker.Stats(attempts)
		assert.Equal(t, tracker.Round(100*float64(stats.CorrectCount)/float64(stats.TotalAttempts), 1), stats.Accuracy)
		assert.Equal(t, tracker.Round(stats.TotalTimeSeconds/float64(stats.TotalAttempts), 2), stats.AverageTimeSeconds)
	}
}

func TestRecentPerformance(t *testing.T) {
	tr, clock := newTracker()
	tr.StartSession()
	for i := 1; i <= 5; i++ {
		clock.Advance(float64(i))
		_, err := tr.LogAttempt(puzzleFor(models.Easy, models.Add), i, false)
		require.NoError(t, err)
	}

	recent := tr.RecentPerformance(3)
	require.Len(t, recent, 3)
	assert.Equal(t, []int{3, 4, 5}, []int{recent[0].UserAnswer, recent[1].UserAnswer, recent[2].UserAnswer}, "chronological order")

	assert.Len(t, tr.RecentPerformance(10), 5)
	assert.Empty(t, tr.RecentPerformance(0))

	recent[0].UserAnswer = 100
	assert.Equal(t, 3, tr.RecentPerformance(3)[0].UserAnswer, "callers get a copy")
}

func TestRecent_ShortLog(t *testing.T) {
	attempts := []models.Attempt{{UserAnswer: 1}}
	assert.Equal(t, attempts, tracker.Recent(attempts, 3))
	assert.Empty(t, tracker.Recent(nil, 3))
}

func TestDifficultyDistribution_UsesTierAtLogTime(t *testing.T) {
	attempts := []models.Attempt{
		{Difficulty: models.Medium},
		{Difficulty: models.Medium},
		{Difficulty: models.Hard},
		{Difficulty: models.Easy},
		{Difficulty: models.Medium},
	}

	dist := tracker.DifficultyDistribution(attempts)

	assert.Equal(t, map[models.Difficulty]int{models.Easy: 1, models.Medium: 3, models.Hard: 1}, dist)
	assert.Empty(t, tracker.DifficultyDistribution(nil))
}

func TestOperationPerformance(t *testing.T) {
	attempts := []models.Attempt{
		{Operation: models.Add, IsCorrect: true, TimeSpentSeconds: 2},
		{Operation: models.Add, IsCorrect: false, TimeSpentSeconds: 5},
		{Operation: models.Add, IsCorrect: true, TimeSpentSeconds: 3.5},
		{Operation: models.Multiply, IsCorrect: false, TimeSpentSeconds: 9.01},
	}

	perf := tracker.OperationPerformance(attempts)

	require.Len(t, perf, 2)
	assert.Equal(t, models.OperationStat{Total: 3, Correct: 2, Accuracy: 66.7, AverageTimeSeconds: 3.5}, perf[models.Add])
	assert.Equal(t, models.OperationStat{Total: 1, Correct: 0, Accuracy: 0, AverageTimeSeconds: 9.01}, perf[models.Multiply])
	_, ok := perf[models.Divide]
	assert.False(t, ok, "operations never attempted are absent")
}

func TestRound(t *testing.T) {
	assert.Equal(t, 4.0, tracker.Round(4.0, 2))
	assert.Equal(t, 1.24, tracker.Round(1.2351, 2))
	assert.Equal(t, 33.3, tracker.Round(100.0/3, 1))
}
