package entity

import "time"

// ResultStatus is the outcome of a single element capture.
type ResultStatus string

const (
	ResultCaptured ResultStatus = "captured"
	ResultNotFound ResultStatus = "not_found"
	ResultFailed   ResultStatus = "failed"
)

// CaptureResult mirrors the `capture_results` PostgreSQL table schema.
type CaptureResult struct {
	ID           int64        `json:"-"`
	DocumentPath string       `json:"document_path"`
	ElementID    string       `json:"element_id"`
	OutputPath   string       `json:"output_path"`
	Status       ResultStatus `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	PixelWidth   int          `json:"pixel_width"`
	PixelHeight  int          `json:"pixel_height"`
	CapturedAt   time.Time    `json:"captured_at"`
}

// DocumentReport collects everything that happened to one document.
type DocumentReport struct {
	Target   CaptureTarget
	Elements []CapturableElement
	Results  []CaptureResult
	Status   DocumentStatus
}

// Captured counts the successful captures in the report.
func (r *DocumentReport) Captured() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == ResultCaptured {
			n++
		}
	}
	return n
}

// RunSummary aggregates the reports of a whole run.
type RunSummary struct {
	Documents        int
	FailedDocuments  int
	ElementsCaptured int
	ElementsFailed   int
	Reports          []*DocumentReport
}

// Add folds a document report into the summary.
func (s *RunSummary) Add(r *DocumentReport) {
	s.Documents++
	if r.Status == StatusFailed {
		s.FailedDocuments++
	}
	captured := r.Captured()
	s.ElementsCaptured += captured
	s.ElementsFailed += len(r.Results) - captured
	s.Reports = append(s.Reports, r)
}
