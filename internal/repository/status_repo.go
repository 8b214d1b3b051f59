package repository

import (
	"context"

	"github.com/user/capture-service/internal/entity"
)

// StatusRepository tracks the state machine of each document.
type StatusRepository interface {
	// SetStatus records the current status of a document.
	SetStatus(ctx context.Context, state *entity.DocumentState) error
	// GetStatus returns ErrNotFound when the document was never seen.
	GetStatus(ctx context.Context, path string) (*entity.DocumentState, error)
}
