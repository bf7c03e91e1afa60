package worker

import (
	"context"
	"errors"

	"github.com/vytor/mathflash/internal/logger"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/repository"
)

// ArchiveResultJob stores a finished session's summary in the results archive.
type ArchiveResultJob struct {
	Repo    repository.ResultRepository
	Summary models.SessionSummary
}

func (j *ArchiveResultJob) Name() string { return "archive_result" }

func (j *ArchiveResultJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session": j.Summary.SessionID,
		"player":  j.Summary.PlayerName,
	})

	id, err := j.Repo.Insert(ctx, models.ResultFromSummary(j.Summary))
	if errors.Is(err, repository.ErrDuplicateSession) {
		log.Warn("session already archived, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("archived result %d (final difficulty %s, accuracy %.1f%%)", id, j.Summary.FinalDifficulty, j.Summary.Stats.Accuracy)
	return nil
}
