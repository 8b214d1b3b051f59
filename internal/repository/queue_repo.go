package repository

import (
	"context"

	"github.com/user/capture-service/internal/entity"
)

// QueueRepository defines the interface for a FIFO queue of capture jobs.
type QueueRepository interface {
	// Push adds a job to the end of the queue.
	Push(ctx context.Context, job *entity.CaptureJob) error
	// Pop removes and returns the job at the front of the queue.
	// It returns ErrNotFound when the queue is empty.
	Pop(ctx context.Context) (*entity.CaptureJob, error)
	// Size returns the current number of items in the queue.
	Size(ctx context.Context) (int64, error)
}
