// Package tracker records puzzle attempts for a practice session and derives
// statistics from them.
package tracker

import (
	"errors"
	"time"

	"github.com/vytor/mathflash/internal/models"
)

// ErrNoAttemptStarted is returned by LogAttempt when no attempt timer is running.
var ErrNoAttemptStarted = errors.New("tracker: no attempt started")

// Tracker owns the append-only attempt log of one session. It is not safe for
// concurrent use.
type Tracker struct {
	now          func() time.Time
	attempts     []models.Attempt
	sessionStart time.Time
	attemptStart *time.Time
}

type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func New(opts ...Option) *Tracker {
	t := &Tracker{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartSession discards all attempts and starts timing the first one.
func (t *Tracker) StartSession() {
	t.sessionStart = t.now()
	t.attempts = nil
	t.StartAttempt()
}

// StartAttempt starts timing the next attempt.
func (t *Tracker) StartAttempt() {
	start := t.now()
	t.attemptStart = &start
}

// LogAttempt appends an attempt for p timed from the last StartAttempt and
// immediately starts timing the next one.
func (t *Tracker) LogAttempt(p models.Puzzle, userAnswer int, isCorrect bool) (models.Attempt, error) {
	if t.attemptStart == nil {
		return models.Attempt{}, ErrNoAttemptStarted
	}

	now := t.now()
	elapsed := now.Sub(*t.attemptStart).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	a := models.Attempt{
		Timestamp:        now,
		Question:         p.Question,
		CorrectAnswer:    p.Answer,
		UserAnswer:       userAnswer,
		IsCorrect:        isCorrect,
		TimeSpentSeconds: Round(elapsed, 2),
		Difficulty:       p.Difficulty,
		Operation:        p.Operation,
	}
	t.attempts = append(t.attempts, a)
	t.StartAttempt()
	return a, nil
}

func (t *Tracker) SessionStart() time.Time {
	return t.sessionStart
}

func (t *Tracker) Len() int {
	return len(t.attempts)
}

// Attempts returns a copy of the attempt log in chronological order.
func (t *Tracker) Attempts() []models.Attempt {
	out := make([]models.Attempt, len(t.attempts))
	copy(out, t.attempts)
	return out
}

func (t *Tracker) SessionStats() models.SessionStats {
	return Stats(t.attempts)
}

func (t *Tracker) RecentPerformance(n int) []models.Attempt {
	return Recent(t.attempts, n)
}

func (t *Tracker) DifficultyDistribution() map[models.Difficulty]int {
	return DifficultyDistribution(t.attempts)
}

func (t *Tracker) OperationPerformance() map[models.Operation]models.OperationStat {
	return OperationPerformance(t.attempts)
}
