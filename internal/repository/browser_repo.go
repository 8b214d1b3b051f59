package repository

import (
	"context"

	"github.com/user/capture-service/internal/entity"
)

// BrowserRepository defines the contract for the headless browser used by a run.
type BrowserRepository interface {
	// Open loads a document in a fresh tab and waits for it to settle.
	Open(ctx context.Context, target entity.CaptureTarget) (Page, error)
	// Close releases the browser.
	Close() error
}

// Page is a loaded document.
type Page interface {
	// Elements returns every element whose id starts with one of prefixes.
	Elements(ctx context.Context, prefixes []string) ([]entity.CapturableElement, error)
	// Capture returns a PNG of the element's rendered region only.
	Capture(ctx context.Context, elementID string) ([]byte, error)
	// Close releases the tab.
	Close() error
}
