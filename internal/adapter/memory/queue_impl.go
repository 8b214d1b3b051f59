package memory

import (
	"context"
	"sync"

	"github.com/user/capture-service/internal/entity"
	"github.com/user/capture-service/internal/repository"
)

// QueueRepoImpl is an in-process FIFO of capture jobs.
type QueueRepoImpl struct {
	mu   sync.Mutex
	jobs []*entity.CaptureJob
}

// NewQueueRepo creates a new instance of QueueRepoImpl.
func NewQueueRepo() *QueueRepoImpl {
	return &QueueRepoImpl{}
}

func (q *QueueRepoImpl) Push(ctx context.Context, job *entity.CaptureJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *QueueRepoImpl) Pop(ctx context.Context) (*entity.CaptureJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil, repository.ErrNotFound
	}
	job := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	return job, nil
}

func (q *QueueRepoImpl) Size(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.jobs)), nil
}
