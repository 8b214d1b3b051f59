package repository

import (
	"context"

	"github.com/user/capture-service/internal/entity"
)

// CaptureResultRepository defines the interface for the capture ledger.
type CaptureResultRepository interface {
	// Save stores a capture attempt. A second attempt for the same element replaces the first.
	Save(ctx context.Context, result *entity.CaptureResult) error
	// FindByDocument retrieves every recorded result for a document, ordered by element id.
	FindByDocument(ctx context.Context, documentPath string) ([]*entity.CaptureResult, error)
}
