package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/mathflash/internal/errors"
	"github.com/vytor/mathflash/internal/logger"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/puzzle"
	"github.com/vytor/mathflash/internal/session"
)

// puzzleResponse is a puzzle as shown to the player, without its answer.
type puzzleResponse struct {
	Question   string            `json:"question"`
	Difficulty models.Difficulty `json:"difficulty"`
	Operation  string            `json:"operation"`
}

func newPuzzleResponse(p *models.Puzzle) *puzzleResponse {
	if p == nil {
		return nil
	}
	return &puzzleResponse{Question: p.Question, Difficulty: p.Difficulty, Operation: p.Operation.Name()}
}

type snapshotResponse struct {
	ID          string              `json:"id"`
	PlayerName  string              `json:"player_name"`
	Round       int                 `json:"round"`
	PuzzleCount int                 `json:"puzzle_count"`
	Difficulty  models.Difficulty   `json:"difficulty"`
	Description string              `json:"description"`
	Puzzle      *puzzleResponse     `json:"puzzle,omitempty"`
	Stats       models.SessionStats `json:"stats"`
	Finished    bool                `json:"finished"`
}

func newSnapshotResponse(s *session.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:          s.ID,
		PlayerName:  s.PlayerName,
		Round:       s.Round,
		PuzzleCount: s.PuzzleCount,
		Difficulty:  s.Difficulty,
		Description: s.Description,
		Puzzle:      newPuzzleResponse(s.Puzzle),
		Stats:       s.Stats,
		Finished:    s.Finished,
	}
}

type roundResponse struct {
	Attempt  models.Attempt  `json:"attempt"`
	Adjusted bool            `json:"adjusted"`
	Reason   string          `json:"reason,omitempty"`
	Finished bool            `json:"finished"`
	Next     *puzzleResponse `json:"next,omitempty"`
}

func newRoundResponse(res *session.RoundResult) roundResponse {
	out := roundResponse{
		Attempt:  res.Attempt,
		Adjusted: res.Adjusted,
		Finished: res.Finished,
		Next:     newPuzzleResponse(res.Next),
	}
	if res.Decision != nil {
		out.Reason = res.Decision.Reason
	}
	return out
}

type startSessionRequest struct {
	PlayerName  string `json:"player_name"`
	Difficulty  string `json:"difficulty"`
	PuzzleCount int    `json:"puzzle_count"`
}

type answerRequest struct {
	Answer *int `json:"answer"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	opts := session.Options{
		PlayerName:         strings.TrimSpace(req.PlayerName),
		StartingDifficulty: s.DefaultDifficulty,
		PuzzleCount:        req.PuzzleCount,
	}
	if req.Difficulty != "" {
		d, err := models.ParseDifficulty(req.Difficulty)
		if err != nil {
			handleError(w, r, errors.NewValidationError("difficulty", err))
			return
		}
		opts.StartingDifficulty = d
	}
	if opts.PuzzleCount == 0 {
		opts.PuzzleCount = s.DefaultPuzzleCount
	}

	snap, err := s.PracticeService.StartSession(r.Context(), opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+snap.ID)
	writeJSON(w, r, http.StatusCreated, newSnapshotResponse(snap))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.PracticeService.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newSnapshotResponse(snap))
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Answer == nil {
		handleError(w, r, errors.NewBadRequestError("answer is required"))
		return
	}

	res, err := s.PracticeService.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), *req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newRoundResponse(res))
}

func (s *Server) handleSkipPuzzle(w http.ResponseWriter, r *http.Request) {
	res, err := s.PracticeService.SkipPuzzle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newRoundResponse(res))
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	report, err := s.PracticeService.GetStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.PracticeService.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if history == nil {
		history = []models.DifficultyChangeEvent{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"changes": history})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	summary, err := s.PracticeService.EndSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("session %s ended via API", summary.SessionID)
	writeJSON(w, r, http.StatusOK, summary)
}

type difficultyResponse struct {
	Name        models.Difficulty `json:"name"`
	Description string            `json:"description"`
	Min         int               `json:"min"`
	Max         int               `json:"max"`
	Operations  []string          `json:"operations"`
}

func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	out := make([]difficultyResponse, 0, len(models.Difficulties))
	for _, d := range models.Difficulties {
		cfg, ok := puzzle.Config(d)
		if !ok {
			continue
		}
		ops := make([]string, 0, len(cfg.Operations))
		for _, op := range cfg.Operations {
			ops = append(ops, op.Name())
		}
		out = append(out, difficultyResponse{Name: d, Description: cfg.Description, Min: cfg.Min, Max: cfg.Max, Operations: ops})
	}
	writeJSON(w, r, http.StatusOK, out)
}
