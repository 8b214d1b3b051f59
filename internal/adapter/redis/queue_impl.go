package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/user/capture-service/internal/entity"
	"github.com/user/capture-service/internal/repository"
)

const captureQueueKey = "capture:queue"

// QueueRepoImpl provides a concrete implementation for the QueueRepository interface using Redis Lists.
type QueueRepoImpl struct {
	client *redis.Client
}

// NewQueueRepo creates a new instance of QueueRepoImpl.
func NewQueueRepo(client *redis.Client) *QueueRepoImpl {
	return &QueueRepoImpl{client: client}
}

// Push adds a job to the left side of the Redis list (acting as a queue).
func (r *QueueRepoImpl) Push(ctx context.Context, job *entity.CaptureJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.client.LPush(ctx, captureQueueKey, payload).Err()
}

// Pop removes and returns a job from the right side of the Redis list.
// An empty list is reported as repository.ErrNotFound.
func (r *QueueRepoImpl) Pop(ctx context.Context) (*entity.CaptureJob, error) {
	payload, err := r.client.RPop(ctx, captureQueueKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	var job entity.CaptureJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("corrupt job in queue: %w", err)
	}
	return &job, nil
}

// Size returns the current number of items in the queue.
func (r *QueueRepoImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, captureQueueKey).Result()
}
