package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/vytor/mathflash/internal/errors"
	"github.com/vytor/mathflash/internal/logger"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/repository"
)

// ResultService reads the archive of finished sessions
type ResultService interface {
	ListResults(ctx context.Context, filter models.ResultFilter) ([]models.PracticeResult, int, error)
	GetResult(ctx context.Context, id int64) (*models.PracticeResult, error)
	PlayerBests(ctx context.Context, playerName string) ([]models.BestResult, error)
}

type resultService struct {
	resultRepo repository.ResultRepository
}

// NewResultService creates a new ResultService
func NewResultService(resultRepo repository.ResultRepository) ResultService {
	return &resultService{resultRepo: resultRepo}
}

func (s *resultService) ListResults(ctx context.Context, filter models.ResultFilter) ([]models.PracticeResult, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing results: player=%s", filter.PlayerName)

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, 0, errors.NewBadRequestError("limit and offset must not be negative")
	}

	results, err := s.resultRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.resultRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count results: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return results, total, nil
}

func (s *resultService) GetResult(ctx context.Context, id int64) (*models.PracticeResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting result: id=%d", id)

	res, err := s.resultRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("result", id)
		}
		log.Error("failed to get result: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return res, nil
}

func (s *resultService) PlayerBests(ctx context.Context, playerName string) ([]models.BestResult, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, errors.NewBadRequestError("player name is required")
	}

	bests, err := s.resultRepo.BestByDifficulty(ctx, playerName)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get best results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return bests, nil
}
