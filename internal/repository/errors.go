package repository

import "errors"

var (
	// ErrNoInput is returned when no capture target could be resolved.
	ErrNoInput = errors.New("no input files found")
	// ErrDocumentLoad wraps any failure to open or navigate a document.
	ErrDocumentLoad = errors.New("document failed to load")
	// ErrElementNotFound means an element disappeared between query and capture.
	ErrElementNotFound = errors.New("element not found")
	// ErrCaptureFailed wraps a failed screenshot call.
	ErrCaptureFailed = errors.New("element capture failed")
	// ErrInvalidElementID is returned for ids that cannot name an output file.
	ErrInvalidElementID = errors.New("element id is not a valid file name")
	// ErrNotFound is returned by stores when nothing is recorded for a key.
	ErrNotFound = errors.New("not found")
)
