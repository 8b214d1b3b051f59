package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
)

// ImageStoreImpl writes captured images to the local disk.
type ImageStoreImpl struct{}

// NewImageStore creates a new instance of ImageStoreImpl.
func NewImageStore() *ImageStoreImpl {
	return &ImageStoreImpl{}
}

// EnsureDir creates dir with any missing parents.
func (s *ImageStoreImpl) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}

// Write replaces the file at path through a temp file in the same directory,
// so a crashed run never leaves a truncated PNG behind.
func (s *ImageStoreImpl) Write(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".capture-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move image into place at %s: %w", path, err)
	}
	return nil
}
