package repository

// ImageStore defines where captured images end up.
type ImageStore interface {
	// EnsureDir creates dir and any missing parents.
	EnsureDir(dir string) error
	// Write stores data at path, overwriting any existing file.
	Write(path string, data []byte) error
}
