package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"github.com/user/capture-service/internal/entity"
	"github.com/user/capture-service/internal/repository"
)

// fakeBrowser renders each element as a solid PNG of its scaled bounding box,
// unless rendered overrides the image size.
type fakeBrowser struct {
	mu        sync.Mutex
	scale     float64
	documents map[string][]entity.CapturableElement
	loadFail  map[string]bool
	vanish    map[string]bool // removed from the DOM right after the query
	broken    map[string]bool // screenshot call fails
	garbage   map[string]bool // screenshot returns bytes that are not a PNG
	rendered  map[string]image.Point
	opened    []string
	closed    int
}

func newFakeBrowser(scale float64) *fakeBrowser {
	return &fakeBrowser{
		scale:     scale,
		documents: make(map[string][]entity.CapturableElement),
		loadFail:  make(map[string]bool),
		vanish:    make(map[string]bool),
		broken:    make(map[string]bool),
		garbage:   make(map[string]bool),
		rendered:  make(map[string]image.Point),
	}
}

func (b *fakeBrowser) Open(ctx context.Context, target entity.CaptureTarget) (repository.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened = append(b.opened, target.Path)
	if b.loadFail[target.Path] {
		return nil, fmt.Errorf("%w: %s: net::ERR_FILE_NOT_FOUND", repository.ErrDocumentLoad, target.Path)
	}
	return &fakePage{browser: b, elements: b.documents[target.Path]}, nil
}

func (b *fakeBrowser) Close() error { return nil }

type fakePage struct {
	browser  *fakeBrowser
	elements []entity.CapturableElement
}

func (p *fakePage) Elements(ctx context.Context, prefixes []string) ([]entity.CapturableElement, error) {
	return p.elements, nil
}

func (p *fakePage) Capture(ctx context.Context, id string) ([]byte, error) {
	if p.browser.vanish[id] {
		return nil, fmt.Errorf("%w: %s", repository.ErrElementNotFound, id)
	}
	if p.browser.broken[id] {
		return nil, fmt.Errorf("%w: %s: Protocol error", repository.ErrCaptureFailed, id)
	}
	if p.browser.garbage[id] {
		return []byte("not a png"), nil
	}
	if size, ok := p.browser.rendered[id]; ok {
		return solidPNG(size.X, size.Y), nil
	}
	for _, el := range p.elements {
		if el.ID == id {
			return solidPNG(
				int(math.Round(el.Width*p.browser.scale)),
				int(math.Round(el.Height*p.browser.scale)),
			), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrElementNotFound, id)
}

func (p *fakePage) Close() error {
	p.browser.mu.Lock()
	defer p.browser.mu.Unlock()
	p.browser.closed++
	return nil
}

func solidPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// recordingStatusRepo keeps every transition in order.
type recordingStatusRepo struct {
	mu      sync.Mutex
	history map[string][]entity.DocumentStatus
}

func newRecordingStatusRepo() *recordingStatusRepo {
	return &recordingStatusRepo{history: make(map[string][]entity.DocumentStatus)}
}

func (r *recordingStatusRepo) SetStatus(ctx context.Context, state *entity.DocumentState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[state.Path] = append(r.history[state.Path], state.CurrentStatus)
	return nil
}

func (r *recordingStatusRepo) GetStatus(ctx context.Context, path string) (*entity.DocumentState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.history[path]
	if len(h) == 0 {
		return nil, repository.ErrNotFound
	}
	return &entity.DocumentState{Path: path, CurrentStatus: h[len(h)-1]}, nil
}
