package repository

import (
	"context"
	"errors"

	"github.com/vytor/mathflash/internal/models"
)

// ErrDuplicateSession is returned when a session has already been archived.
var ErrDuplicateSession = errors.New("repository: session already archived")

// ResultRepository handles archived practice results
type ResultRepository interface {
	Insert(ctx context.Context, result models.PracticeResult) (int64, error)
	Get(ctx context.Context, id int64) (*models.PracticeResult, error)
	List(ctx context.Context, filter models.ResultFilter) ([]models.PracticeResult, error)
	Count(ctx context.Context, filter models.ResultFilter) (int, error)
	BestByDifficulty(ctx context.Context, playerName string) ([]models.BestResult, error)
}
