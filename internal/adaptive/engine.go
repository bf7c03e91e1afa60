// Package adaptive decides the next puzzle tier from a window of recent attempts.
//
// The rules are fixed thresholds over the last few attempts:
//   - fewer than MinWindow attempts: keep the tier
//   - at least PromoteMinCorrect correct and an average time under
//     PromoteMaxAvgSeconds: one tier up
//   - at most DemoteMaxCorrect correct: one tier down
//   - otherwise keep the tier
//
// A decision never moves more than one tier.
package adaptive

import (
	"fmt"
	"strings"

	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/tracker"
)

const (
	WindowSize           = 3
	MinWindow            = 2
	PromoteMinCorrect    = 2
	PromoteMaxAvgSeconds = 8.0
	DemoteMaxCorrect     = 1
)

// Decision is the outcome of evaluating a window at a tier.
type Decision struct {
	Previous           models.Difficulty `json:"previous"`
	Next               models.Difficulty `json:"next"`
	Reason             string            `json:"reason"`
	Changed            bool              `json:"changed"`
	CorrectCount       int               `json:"correct_count"`
	Total              int               `json:"total"`
	AverageTimeSeconds float64           `json:"average_time_seconds"`
}

type windowSummary struct {
	correct int
	total   int
	avg     float64
}

func summarize(window []models.Attempt) windowSummary {
	s := windowSummary{total: len(window)}
	if s.total == 0 {
		return s
	}
	sum := 0.0
	for _, a := range window {
		if a.IsCorrect {
			s.correct++
		}
		sum += a.TimeSpentSeconds
	}
	s.avg = sum / float64(s.total)
	return s
}

func (s windowSummary) promote() bool {
	return s.correct >= PromoteMinCorrect && s.avg < PromoteMaxAvgSeconds
}

func (s windowSummary) demote() bool {
	return s.correct <= DemoteMaxCorrect
}

// Decide evaluates window at tier current. It has no side effects.
func Decide(window []models.Attempt, current models.Difficulty) (Decision, error) {
	if !current.IsValid() {
		return Decision{}, fmt.Errorf("adaptive: %w: %d", models.ErrInvalidDifficulty, int(current))
	}

	s := summarize(window)
	d := Decision{
		Previous:           current,
		Next:               current,
		CorrectCount:       s.correct,
		Total:              s.total,
		AverageTimeSeconds: s.avg,
	}

	if s.total < MinWindow {
		d.Reason = fmt.Sprintf("Not enough attempts yet, staying at %s level", current)
		return d, nil
	}

	if harder, ok := current.Harder(); ok && s.promote() {
		d.Next = harder
		d.Reason = fmt.Sprintf("Great work! Moving to %s (accuracy: %d/%d)", harder, s.correct, s.total)
	} else if easier, ok := current.Easier(); ok && s.demote() {
		d.Next = easier
		d.Reason = fmt.Sprintf("Let's try %s level (accuracy: %d/%d)", easier, s.correct, s.total)
	} else {
		d.Reason = fmt.Sprintf("Staying at %s level", current)
	}
	d.Changed = d.Next != current
	return d, nil
}

// Engine applies Decide and keeps the log of tier changes for a session.
// It is not safe for concurrent use.
type Engine struct {
	current models.Difficulty
	history []models.DifficultyChangeEvent
}

func NewEngine() *Engine {
	return &Engine{current: models.Medium}
}

// Adapt decides the next tier and records a change event when the tier moves.
func (e *Engine) Adapt(window []models.Attempt, current models.Difficulty) (Decision, error) {
	d, err := Decide(window, current)
	if err != nil {
		return d, err
	}
	if d.Changed {
		e.history = append(e.history, models.DifficultyChangeEvent{
			From:               d.Previous,
			To:                 d.Next,
			Reason:             d.Reason,
			CorrectCount:       d.CorrectCount,
			TotalAttempts:      d.Total,
			AverageTimeSeconds: tracker.Round(d.AverageTimeSeconds, 2),
		})
	}
	e.current = d.Next
	return d, nil
}

// Current is the tier returned by the last Adapt call. It is for display only;
// callers pass the authoritative tier to Adapt.
func (e *Engine) Current() models.Difficulty {
	return e.current
}

// SetCurrent seeds the displayed tier at the start of a session.
func (e *Engine) SetCurrent(d models.Difficulty) {
	if d.IsValid() {
		e.current = d
	}
}

// History returns the tier changes in the order they happened.
func (e *Engine) History() []models.DifficultyChangeEvent {
	out := make([]models.DifficultyChangeEvent, len(e.history))
	copy(out, e.history)
	return out
}

// Reset clears the change log.
func (e *Engine) Reset() {
	e.history = nil
}

// Explain renders the window analysis for the player. It uses the same
// thresholds as Decide but ignores tier bounds.
func Explain(window []models.Attempt) string {
	s := summarize(window)
	if s.total < MinWindow {
		return "Building your performance profile... Keep going!"
	}

	var sb strings.Builder
	sb.WriteString("Recent Performance Analysis:\n")
	fmt.Fprintf(&sb, "Correct: %d/%d\n", s.correct, s.total)
	fmt.Fprintf(&sb, "Average Time: %.1fs\n\n", s.avg)

	switch {
	case s.promote():
		sb.WriteString("You're doing excellent! Ready for a challenge.")
	case s.demote():
		sb.WriteString("Let's work on building confidence at an easier level.")
	default:
		sb.WriteString("You're at the perfect difficulty level. Keep it up!")
	}
	return sb.String()
}

// Explain is a method form of the package-level Explain.
func (e *Engine) Explain(window []models.Attempt) string {
	return Explain(window)
}
