package api

import (
	"context"

	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/services"
)

// HealthChecker reports whether a dependency can serve traffic.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	PracticeService    services.PracticeService
	ResultService      services.ResultService
	DB                 HealthChecker
	DefaultDifficulty  models.Difficulty
	DefaultPuzzleCount int
}
