package entity

import "time"

// DocumentStatus is the per-document state of a capture run.
type DocumentStatus string

const (
	StatusPending   DocumentStatus = "pending"
	StatusLoading   DocumentStatus = "loading"
	StatusReady     DocumentStatus = "ready"
	StatusCapturing DocumentStatus = "capturing"
	StatusDone      DocumentStatus = "done"
	StatusFailed    DocumentStatus = "failed" // document could not be loaded
)

// Terminal reports whether no further transition is expected.
func (s DocumentStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// DocumentState is what the status store keeps for one document.
type DocumentState struct {
	Path          string         `json:"path"`
	CurrentStatus DocumentStatus `json:"current_status"`
	UpdatedAt     time.Time      `json:"updated_at"`
	FailureReason string         `json:"failure_reason,omitempty"`
}
