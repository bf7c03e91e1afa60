package jobs

import (
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/repository"
	"github.com/vytor/mathflash/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	archivePool *worker.Pool
	resultRepo  repository.ResultRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(archivePool *worker.Pool, resultRepo repository.ResultRepository) JobQueue {
	return &WorkerQueue{
		archivePool: archivePool,
		resultRepo:  resultRepo,
	}
}

func (q *WorkerQueue) EnqueueArchive(summary models.SessionSummary) error {
	return q.archivePool.Submit(&worker.ArchiveResultJob{
		Repo:    q.resultRepo,
		Summary: summary,
	})
}
