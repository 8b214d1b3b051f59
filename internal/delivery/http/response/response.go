package response

import (
	"time"

	"github.com/user/capture-service/internal/entity"
)

type SubmitCaptureResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	JobID   string   `json:"job_id"`
	Paths   []string `json:"paths"`
}

// DocumentStatusResponse is a DTO for document status, mirroring entity.DocumentState
type DocumentStatusResponse struct {
	Path          string    `json:"path"`
	CurrentStatus string    `json:"current_status"` // "pending", "loading", "ready", "capturing", "done", "failed"
	UpdatedAt     time.Time `json:"updated_at"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

type CaptureResultsResponse struct {
	Path    string                  `json:"path"`
	Results []*entity.CaptureResult `json:"results"`
}
