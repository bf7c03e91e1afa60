package jobs

import "github.com/vytor/mathflash/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueArchive(summary models.SessionSummary) error
}
