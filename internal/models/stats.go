package models

import "time"

// SessionStats aggregates every attempt of a session. The zero value is the
// result for a session without attempts.
type SessionStats struct {
	TotalAttempts      int     `json:"total_attempts"`
	CorrectCount       int     `json:"correct_count"`
	IncorrectCount     int     `json:"incorrect_count"`
	Accuracy           float64 `json:"accuracy"` // percentage, 1 decimal
	AverageTimeSeconds float64 `json:"average_time"`
	TotalTimeSeconds   float64 `json:"total_time"`
	FastestTimeSeconds float64 `json:"fastest_time"`
	SlowestTimeSeconds float64 `json:"slowest_time"`
}

type OperationStat struct {
	Total              int     `json:"total"`
	Correct            int     `json:"correct"`
	Accuracy           float64 `json:"accuracy"`
	AverageTimeSeconds float64 `json:"avg_time"`
}

// SessionSummary is the final report of a practice session, handed to the
// results archive once the session ends.
type SessionSummary struct {
	SessionID              string                      `json:"session_id"`
	PlayerName             string                      `json:"player_name"`
	StartingDifficulty     Difficulty                  `json:"starting_difficulty"`
	FinalDifficulty        Difficulty                  `json:"final_difficulty"`
	PuzzleCount            int                         `json:"puzzle_count"`
	Stats                  SessionStats                `json:"stats"`
	DifficultyDistribution map[Difficulty]int          `json:"difficulty_distribution"`
	OperationPerformance   map[Operation]OperationStat `json:"operation_performance"`
	Changes                []DifficultyChangeEvent     `json:"changes"`
	Explanation            string                      `json:"explanation"`
	StartedAt              time.Time                   `json:"started_at"`
	CompletedAt            time.Time                   `json:"completed_at"`
}
