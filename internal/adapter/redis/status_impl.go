package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/capture-service/internal/entity"
	"github.com/user/capture-service/internal/repository"
	"github.com/user/capture-service/pkg/utils"
)

const (
	statusKeyPrefix = "capture:status:"
	statusExpiry    = 7 * 24 * time.Hour
)

// StatusRepoImpl provides a concrete implementation for the StatusRepository interface using Redis.
type StatusRepoImpl struct {
	client *redis.Client
}

// NewStatusRepo creates a new instance of StatusRepoImpl.
func NewStatusRepo(client *redis.Client) *StatusRepoImpl {
	return &StatusRepoImpl{client: client}
}

// generateKey creates a consistent Redis key for a given document by hashing its path.
func (r *StatusRepoImpl) generateKey(path string) string {
	return fmt.Sprintf("%s%s", statusKeyPrefix, utils.HashPath(path))
}

// SetStatus stores the document state as JSON; SET with an expiry keeps old runs from piling up.
func (r *StatusRepoImpl) SetStatus(ctx context.Context, state *entity.DocumentState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.generateKey(state.Path), payload, statusExpiry).Err()
}

// GetStatus returns repository.ErrNotFound when the key does not exist.
func (r *StatusRepoImpl) GetStatus(ctx context.Context, path string) (*entity.DocumentState, error) {
	payload, err := r.client.Get(ctx, r.generateKey(path)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	var state entity.DocumentState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("corrupt status record for %s: %w", path, err)
	}
	return &state, nil
}
