package entity

import "time"

// CaptureJob is a batch of documents submitted through the HTTP API.
type CaptureJob struct {
	ID          string    `json:"id"`
	Paths       []string  `json:"paths"`
	SubmittedAt time.Time `json:"submitted_at"`
}
