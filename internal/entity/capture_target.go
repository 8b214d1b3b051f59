package entity

// CaptureTarget is an input document resolved to an absolute path.
type CaptureTarget struct {
	Path     string // absolute
	Dir      string
	BaseName string // filename without extension
}

// CapturableElement is a DOM node whose id matched one of the configured prefixes.
// Width and Height are the bounding box in CSS pixels at query time.
type CapturableElement struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
