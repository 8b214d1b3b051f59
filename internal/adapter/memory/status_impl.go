package memory

import (
	"context"
	"sync"

	"github.com/user/capture-service/internal/entity"
	"github.com/user/capture-service/internal/repository"
)

// StatusRepoImpl keeps document states in process memory.
type StatusRepoImpl struct {
	mu     sync.RWMutex
	states map[string]entity.DocumentState
}

// NewStatusRepo creates a new instance of StatusRepoImpl.
func NewStatusRepo() *StatusRepoImpl {
	return &StatusRepoImpl{states: make(map[string]entity.DocumentState)}
}

func (r *StatusRepoImpl) SetStatus(ctx context.Context, state *entity.DocumentState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state.Path] = *state
	return nil
}

func (r *StatusRepoImpl) GetStatus(ctx context.Context, path string) (*entity.DocumentState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.states[path]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &state, nil
}
