package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/mathflash/internal/errors"
	"github.com/vytor/mathflash/internal/jobs"
	"github.com/vytor/mathflash/internal/logger"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/puzzle"
	"github.com/vytor/mathflash/internal/session"
)

// SessionReport is the statistics view of a live session.
type SessionReport struct {
	Difficulty             models.Difficulty                         `json:"difficulty"`
	Stats                  models.SessionStats                       `json:"stats"`
	DifficultyDistribution map[models.Difficulty]int                 `json:"difficulty_distribution"`
	OperationPerformance   map[models.Operation]models.OperationStat `json:"operation_performance"`
	Explanation            string                                    `json:"explanation"`
}

// PracticeService runs practice sessions held in memory
type PracticeService interface {
	StartSession(ctx context.Context, opts session.Options) (*session.Snapshot, error)
	GetSession(ctx context.Context, id string) (*session.Snapshot, error)
	SubmitAnswer(ctx context.Context, id string, answer int) (*session.RoundResult, error)
	SkipPuzzle(ctx context.Context, id string) (*session.RoundResult, error)
	GetStats(ctx context.Context, id string) (*SessionReport, error)
	GetHistory(ctx context.Context, id string) ([]models.DifficultyChangeEvent, error)
	EndSession(ctx context.Context, id string) (*models.SessionSummary, error)
	PruneIdle(ctx context.Context, maxIdle time.Duration) int
	EndAll(ctx context.Context) int
	ActiveSessions() int
}

type liveSession struct {
	mu       sync.Mutex
	s        *session.Session
	archived bool
}

type practiceService struct {
	queue        jobs.JobQueue
	now          func() time.Time
	newID        func() string
	newGenerator func() *puzzle.Generator

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

type PracticeOption func(*practiceService)

// WithPracticeClock sets the clock handed to every session.
func WithPracticeClock(now func() time.Time) PracticeOption {
	return func(s *practiceService) { s.now = now }
}

func WithSessionIDs(newID func() string) PracticeOption {
	return func(s *practiceService) { s.newID = newID }
}

func WithGeneratorFactory(fn func() *puzzle.Generator) PracticeOption {
	return func(s *practiceService) { s.newGenerator = fn }
}

// NewPracticeService creates a new PracticeService. Finished sessions are
// handed to queue for archiving; queue may be nil to disable archiving.
func NewPracticeService(queue jobs.JobQueue, opts ...PracticeOption) PracticeService {
	s := &practiceService{
		queue:        queue,
		now:          time.Now,
		newID:        uuid.NewString,
		newGenerator: func() *puzzle.Generator { return puzzle.NewGenerator() },
		sessions:     make(map[string]*liveSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *practiceService) StartSession(ctx context.Context, opts session.Options) (*session.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: player=%s, difficulty=%s, count=%d", opts.PlayerName, opts.StartingDifficulty, opts.PuzzleCount)

	id := s.newID()
	sess, err := session.New(id, opts, session.WithGenerator(s.newGenerator()), session.WithClock(s.now))
	if err != nil {
		return nil, errors.NewValidationError("session options", err)
	}

	s.mu.Lock()
	s.sessions[id] = &liveSession{s: sess}
	s.mu.Unlock()

	log.Info("session started: id=%s, player=%s, difficulty=%s", id, opts.PlayerName, opts.StartingDifficulty)
	snap := sess.Snapshot()
	return &snap, nil
}

func (s *practiceService) lookup(id string) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ls, ok := s.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return ls, nil
}

func (s *practiceService) GetSession(ctx context.Context, id string) (*session.Snapshot, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	snap := ls.s.Snapshot()
	return &snap, nil
}

func (s *practiceService) SubmitAnswer(ctx context.Context, id string, answer int) (*session.RoundResult, error) {
	return s.play(ctx, id, func(sess *session.Session) (session.RoundResult, error) {
		return sess.Submit(answer)
	})
}

func (s *practiceService) SkipPuzzle(ctx context.Context, id string) (*session.RoundResult, error) {
	return s.play(ctx, id, (*session.Session).Skip)
}

func (s *practiceService) play(ctx context.Context, id string, fn func(*session.Session) (session.RoundResult, error)) (*session.RoundResult, error) {
	log := logger.FromContext(ctx).WithField("session", id)

	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	res, err := fn(ls.s)
	if err != nil {
		if stderrors.Is(err, session.ErrSessionFinished) {
			return nil, errors.NewConflictError("session is already finished", err)
		}
		log.Error("failed to play round: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("round played: question=%q, correct=%t, time=%.2fs", res.Attempt.Question, res.Attempt.IsCorrect, res.Attempt.TimeSpentSeconds)
	if res.Adjusted {
		log.Info("difficulty changed: %s -> %s (%s)", res.Decision.Previous, res.Decision.Next, res.Decision.Reason)
	}
	if res.Finished {
		log.Info("session finished")
		s.archive(ctx, ls)
	}
	return &res, nil
}

func (s *practiceService) GetStats(ctx context.Context, id string) (*SessionReport, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return &SessionReport{
		Difficulty:             ls.s.Difficulty(),
		Stats:                  ls.s.Stats(),
		DifficultyDistribution: ls.s.DifficultyDistribution(),
		OperationPerformance:   ls.s.OperationPerformance(),
		Explanation:            ls.s.Explain(),
	}, nil
}

func (s *practiceService) GetHistory(ctx context.Context, id string) ([]models.DifficultyChangeEvent, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.s.History(), nil
}

// EndSession finishes the session, archives it if anything was answered and
// drops it from memory.
func (s *practiceService) EndSession(ctx context.Context, id string) (*models.SessionSummary, error) {
	log := logger.FromContext(ctx).WithField("session", id)

	s.mu.Lock()
	ls, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.s.End()
	s.archive(ctx, ls)

	summary := ls.s.Summary()
	log.Info("session ended: attempts=%d, accuracy=%.1f%%, final=%s", summary.Stats.TotalAttempts, summary.Stats.Accuracy, summary.FinalDifficulty)
	return &summary, nil
}

// PruneIdle ends and forgets sessions untouched for longer than maxIdle.
func (s *practiceService) PruneIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	n := s.evict(ctx, func(sess *session.Session) bool {
		return sess.LastActive().Before(cutoff)
	})
	if n > 0 {
		logger.FromContext(ctx).Info("pruned %d idle sessions", n)
	}
	return n
}

// EndAll ends and forgets every session, archiving those with attempts.
func (s *practiceService) EndAll(ctx context.Context) int {
	return s.evict(ctx, func(*session.Session) bool { return true })
}

func (s *practiceService) evict(ctx context.Context, match func(*session.Session) bool) int {
	s.mu.Lock()
	var evicted []*liveSession
	for id, ls := range s.sessions {
		ls.mu.Lock()
		ok := match(ls.s)
		ls.mu.Unlock()
		if ok {
			evicted = append(evicted, ls)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, ls := range evicted {
		ls.mu.Lock()
		ls.s.End()
		s.archive(ctx, ls)
		ls.mu.Unlock()
	}
	return len(evicted)
}

func (s *practiceService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// archive must be called with ls.mu held.
func (s *practiceService) archive(ctx context.Context, ls *liveSession) {
	if s.queue == nil || ls.archived || ls.s.Stats().TotalAttempts == 0 {
		return
	}
	if err := s.queue.EnqueueArchive(ls.s.Summary()); err != nil {
		logger.FromContext(ctx).Warn("failed to enqueue archive for session %s: %v", ls.s.ID, err)
		return
	}
	ls.archived = true
}
