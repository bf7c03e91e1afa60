package models

import "time"

// Puzzle is a single arithmetic question. Operands holds the two numbers
// exactly as displayed in Question.
type Puzzle struct {
	Question   string     `json:"question"`
	Answer     int        `json:"answer"`
	Difficulty Difficulty `json:"difficulty"`
	Operation  Operation  `json:"operation"`
	Operands   [2]int     `json:"operands"`
}

// Attempt is one submitted or skipped puzzle.
type Attempt struct {
	Timestamp        time.Time  `json:"timestamp"`
	Question         string     `json:"question"`
	CorrectAnswer    int        `json:"correct_answer"`
	UserAnswer       int        `json:"user_answer"`
	IsCorrect        bool       `json:"is_correct"`
	TimeSpentSeconds float64    `json:"time_spent_seconds"`
	Difficulty       Difficulty `json:"difficulty"`
	Operation        Operation  `json:"operation"`
}

// DifficultyChangeEvent records an adaptation decision that moved the tier.
type DifficultyChangeEvent struct {
	From               Difficulty `json:"from"`
	To                 Difficulty `json:"to"`
	Reason             string     `json:"reason"`
	CorrectCount       int        `json:"correct_count"`
	TotalAttempts      int        `json:"total_attempts"`
	AverageTimeSeconds float64    `json:"average_time_seconds"`
}
