package tracker

import (
	"math"

	"github.com/vytor/mathflash/internal/models"
)

// Round rounds x to the given number of decimal places, halves away from zero.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// Stats aggregates attempts. An empty slice yields the zero SessionStats.
func Stats(attempts []models.Attempt) models.SessionStats {
	if len(attempts) == 0 {
		return models.SessionStats{}
	}

	correct := 0
	total := 0.0
	fastest := attempts[0].TimeSpentSeconds
	slowest := attempts[0].TimeSpentSeconds
	for _, a := range attempts {
		if a.IsCorrect {
			correct++
		}
		total += a.TimeSpentSeconds
		fastest = math.Min(fastest, a.TimeSpentSeconds)
		slowest = math.Max(slowest, a.TimeSpentSeconds)
	}

	n := len(attempts)
	return models.SessionStats{
		TotalAttempts:      n,
		CorrectCount:       correct,
		IncorrectCount:     n - correct,
		Accuracy:           Round(float64(correct)/float64(n)*100, 1),
		AverageTimeSeconds: Round(total/float64(n), 2),
		TotalTimeSeconds:   Round(total, 2),
		FastestTimeSeconds: fastest,
		SlowestTimeSeconds: slowest,
	}
}

// Recent returns a copy of the last min(n, len(attempts)) attempts, oldest first.
func Recent(attempts []models.Attempt, n int) []models.Attempt {
	if n <= 0 {
		return []models.Attempt{}
	}
	if n > len(attempts) {
		n = len(attempts)
	}
	out := make([]models.Attempt, n)
	copy(out, attempts[len(attempts)-n:])
	return out
}

// DifficultyDistribution counts attempts by the tier they were played at.
func DifficultyDistribution(attempts []models.Attempt) map[models.Difficulty]int {
	dist := make(map[models.Difficulty]int)
	for _, a := range attempts {
		dist[a.Difficulty]++
	}
	return dist
}

// OperationPerformance groups attempts by operation.
func OperationPerformance(attempts []models.Attempt) map[models.Operation]models.OperationStat {
	type acc struct {
		total, correct int
		time           float64
	}
	groups := make(map[models.Operation]*acc)
	for _, a := range attempts {
		g, ok := groups[a.Operation]
		if !ok {
			g = &acc{}
			groups[a.Operation] = g
		}
		g.total++
		if a.IsCorrect {
			g.correct++
		}
		g.time += a.TimeSpentSeconds
	}

	out := make(map[models.Operation]models.OperationStat, len(groups))
	for op, g := range groups {
		out[op] = models.OperationStat{
			Total:              g.total,
			Correct:            g.correct,
			Accuracy:           Round(float64(g.correct)/float64(g.total)*100, 1),
			AverageTimeSeconds: Round(g.time/float64(g.total), 2),
		}
	}
	return out
}
