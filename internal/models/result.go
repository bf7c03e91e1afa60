package models

import "time"

// PracticeResult is an archived SessionSummary.
type PracticeResult struct {
	ID                 int64                       `json:"id"`
	SessionID          string                      `json:"session_id"`
	PlayerName         string                      `json:"player_name"`
	StartingDifficulty Difficulty                  `json:"starting_difficulty"`
	FinalDifficulty    Difficulty                  `json:"final_difficulty"`
	PuzzleCount        int                         `json:"puzzle_count"`
	TotalAttempts      int                         `json:"total_attempts"`
	CorrectCount       int                         `json:"correct_count"`
	Accuracy           float64                     `json:"accuracy"`
	AverageTimeSeconds float64                     `json:"average_time"`
	TotalTimeSeconds   float64                     `json:"total_time"`
	Operations         map[Operation]OperationStat `json:"operations,omitempty"`
	Changes            []DifficultyChangeEvent     `json:"changes,omitempty"`
	StartedAt          time.Time                   `json:"started_at"`
	CompletedAt        time.Time                   `json:"completed_at"`
}

type ResultFilter struct {
	PlayerName string
	// FinalDifficulty filters on the tier the session ended at when non-nil.
	FinalDifficulty *Difficulty
	Limit           int
	Offset          int
	OrderDir        string
}

// BestResult is a player's top accuracy for sessions that ended at a tier.
// LastPlayedAt is the most recent completion at that tier, not necessarily
// the time of the best session.
type BestResult struct {
	FinalDifficulty Difficulty `json:"final_difficulty"`
	Accuracy        float64    `json:"accuracy"`
	Sessions        int        `json:"sessions"`
	LastPlayedAt    time.Time  `json:"last_played_at"`
}

// ResultFromSummary flattens a finished session for archiving.
func ResultFromSummary(s SessionSummary) PracticeResult {
	return PracticeResult{
		SessionID:          s.SessionID,
		PlayerName:         s.PlayerName,
		StartingDifficulty: s.StartingDifficulty,
		FinalDifficulty:    s.FinalDifficulty,
		PuzzleCount:        s.PuzzleCount,
		TotalAttempts:      s.Stats.TotalAttempts,
		CorrectCount:       s.Stats.CorrectCount,
		Accuracy:           s.Stats.Accuracy,
		AverageTimeSeconds: s.Stats.AverageTimeSeconds,
		TotalTimeSeconds:   s.Stats.TotalTimeSeconds,
		Operations:         s.OperationPerformance,
		Changes:            s.Changes,
		StartedAt:          s.StartedAt,
		CompletedAt:        s.CompletedAt,
	}
}
