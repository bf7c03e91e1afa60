// Package session drives practice rounds: generate, answer, log, adapt, repeat.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vytor/mathflash/internal/adaptive"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/puzzle"
	"github.com/vytor/mathflash/internal/tracker"
)

const (
	MinPuzzles     = 5
	MaxPuzzles     = 20
	DefaultPuzzles = 10
)

var (
	ErrInvalidOptions  = errors.New("session: invalid options")
	ErrSessionFinished = errors.New("session: already finished")
)

// Options are the player's choices when starting a session.
type Options struct {
	PlayerName         string
	StartingDifficulty models.Difficulty
	PuzzleCount        int
}

// Validate checks the options and returns every problem found.
func (o Options) Validate() error {
	var errs []error
	if strings.TrimSpace(o.PlayerName) == "" {
		errs = append(errs, fmt.Errorf("%w: player name is required", ErrInvalidOptions))
	}
	if !o.StartingDifficulty.IsValid() {
		errs = append(errs, fmt.Errorf("%w: starting difficulty %w", ErrInvalidOptions, models.ErrInvalidDifficulty))
	}
	if o.PuzzleCount < MinPuzzles || o.PuzzleCount > MaxPuzzles {
		errs = append(errs, fmt.Errorf("%w: puzzle count must be between %d and %d, got %d", ErrInvalidOptions, MinPuzzles, MaxPuzzles, o.PuzzleCount))
	}
	return errors.Join(errs...)
}

// RoundResult reports what happened when a puzzle was answered or skipped.
type RoundResult struct {
	Attempt  models.Attempt     `json:"attempt"`
	Decision *adaptive.Decision `json:"decision,omitempty"`
	Adjusted bool               `json:"adjusted"`
	Finished bool               `json:"finished"`
	Next     *models.Puzzle     `json:"next,omitempty"`
}

// Snapshot is the visible state of a session between rounds.
type Snapshot struct {
	ID          string              `json:"id"`
	PlayerName  string              `json:"player_name"`
	Round       int                 `json:"round"`
	PuzzleCount int                 `json:"puzzle_count"`
	Difficulty  models.Difficulty   `json:"difficulty"`
	Description string              `json:"description"`
	Puzzle      *models.Puzzle      `json:"puzzle,omitempty"`
	Stats       models.SessionStats `json:"stats"`
	Finished    bool                `json:"finished"`
}

// Session owns one Generator, Tracker and Engine. It is not safe for
// concurrent use; the service layer serialises access.
type Session struct {
	ID        string
	opts      Options
	generator *puzzle.Generator
	tracker   *tracker.Tracker
	engine    *adaptive.Engine
	now       func() time.Time

	current    models.Puzzle
	answered   int
	finished   bool
	finishedAt time.Time
	lastActive time.Time
}

type Option func(*Session)

func WithGenerator(g *puzzle.Generator) Option {
	return func(s *Session) { s.generator = g }
}

// WithClock sets the clock used by the session and its tracker.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New validates opts and starts the session with its first puzzle ready.
func New(id string, opts Options, options ...Option) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &Session{ID: id, opts: opts, now: time.Now}
	for _, o := range options {
		o(s)
	}
	if s.generator == nil {
		s.generator = puzzle.NewGenerator()
	}
	s.tracker = tracker.New(tracker.WithClock(s.now))
	s.engine = adaptive.NewEngine()

	s.generator.SetDifficulty(opts.StartingDifficulty)
	s.engine.SetCurrent(opts.StartingDifficulty)
	s.tracker.StartSession()
	s.current = s.generator.GenerateDefault()
	s.lastActive = s.now()
	return s, nil
}

func (s *Session) Options() Options {
	return s.opts
}

func (s *Session) Finished() bool {
	return s.finished
}

func (s *Session) LastActive() time.Time {
	return s.lastActive
}

// Puzzle returns the puzzle waiting for an answer. ok is false once finished.
func (s *Session) Puzzle() (p models.Puzzle, ok bool) {
	if s.finished {
		return models.Puzzle{}, false
	}
	return s.current, true
}

// Submit checks answer against the current puzzle.
func (s *Session) Submit(answer int) (RoundResult, error) {
	return s.play(answer, answer == s.current.Answer)
}

// Skip records the current puzzle as an incorrect answer of 0.
func (s *Session) Skip() (RoundResult, error) {
	return s.play(0, false)
}

func (s *Session) play(answer int, correct bool) (RoundResult, error) {
	if s.finished {
		return RoundResult{}, ErrSessionFinished
	}

	attempt, err := s.tracker.LogAttempt(s.current, answer, correct)
	if err != nil {
		return RoundResult{}, fmt.Errorf("log attempt: %w", err)
	}
	s.answered++
	s.lastActive = s.now()

	res := RoundResult{Attempt: attempt}
	if s.answered >= s.opts.PuzzleCount {
		s.finish()
		res.Finished = true
		return res, nil
	}

	d, err := s.engine.Adapt(s.tracker.RecentPerformance(adaptive.WindowSize), s.current.Difficulty)
	if err != nil {
		return RoundResult{}, fmt.Errorf("adapt difficulty: %w", err)
	}
	s.generator.SetDifficulty(d.Next)
	s.current = s.generator.GenerateDefault()

	next := s.current
	res.Decision = &d
	res.Adjusted = d.Changed
	res.Next = &next
	return res, nil
}

// End finishes the session early. Ending a finished session is a no-op.
func (s *Session) End() {
	if !s.finished {
		s.finish()
	}
}

func (s *Session) finish() {
	s.finished = true
	s.finishedAt = s.now()
	s.lastActive = s.finishedAt
}

// Difficulty is the tier of the puzzle in play, or the last tier played once finished.
func (s *Session) Difficulty() models.Difficulty {
	return s.current.Difficulty
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		PlayerName:  s.opts.PlayerName,
		Round:       s.answered + 1,
		PuzzleCount: s.opts.PuzzleCount,
		Difficulty:  s.current.Difficulty,
		Description: s.generator.Describe(s.current.Difficulty),
		Stats:       s.tracker.SessionStats(),
		Finished:    s.finished,
	}
	if s.finished {
		snap.Round = s.answered
	} else {
		p := s.current
		snap.Puzzle = &p
	}
	return snap
}

func (s *Session) Stats() models.SessionStats {
	return s.tracker.SessionStats()
}

func (s *Session) DifficultyDistribution() map[models.Difficulty]int {
	return s.tracker.DifficultyDistribution()
}

func (s *Session) OperationPerformance() map[models.Operation]models.OperationStat {
	return s.tracker.OperationPerformance()
}

func (s *Session) History() []models.DifficultyChangeEvent {
	return s.engine.History()
}

// Explain describes the player's recent window.
func (s *Session) Explain() string {
	return s.engine.Explain(s.tracker.RecentPerformance(adaptive.WindowSize))
}

// Summary builds the final report. It can be called before the session ends.
func (s *Session) Summary() models.SessionSummary {
	completed := s.finishedAt
	if !s.finished {
		completed = s.now()
	}
	return models.SessionSummary{
		SessionID:              s.ID,
		PlayerName:             s.opts.PlayerName,
		StartingDifficulty:     s.opts.StartingDifficulty,
		FinalDifficulty:        s.engine.Current(),
		PuzzleCount:            s.opts.PuzzleCount,
		Stats:                  s.tracker.SessionStats(),
		DifficultyDistribution: s.tracker.DifficultyDistribution(),
		OperationPerformance:   s.tracker.OperationPerformance(),
		Changes:                s.engine.History(),
		Explanation:            s.Explain(),
		StartedAt:              s.tracker.SessionStart(),
		CompletedAt:            completed,
	}
}
