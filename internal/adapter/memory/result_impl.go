package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/user/capture-service/internal/entity"
)

// CaptureResultRepoImpl is the ledger used when no database is configured.
type CaptureResultRepoImpl struct {
	mu      sync.RWMutex
	results map[string]map[string]entity.CaptureResult // document -> element -> result
}

// NewCaptureResultRepo creates a new instance of CaptureResultRepoImpl.
func NewCaptureResultRepo() *CaptureResultRepoImpl {
	return &CaptureResultRepoImpl{results: make(map[string]map[string]entity.CaptureResult)}
}

func (r *CaptureResultRepoImpl) Save(ctx context.Context, result *entity.CaptureResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byElement, ok := r.results[result.DocumentPath]
	if !ok {
		byElement = make(map[string]entity.CaptureResult)
		r.results[result.DocumentPath] = byElement
	}
	byElement[result.ElementID] = *result
	return nil
}

func (r *CaptureResultRepoImpl) FindByDocument(ctx context.Context, documentPath string) ([]*entity.CaptureResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.CaptureResult{}
	for _, res := range r.results[documentPath] {
		res := res
		out = append(out, &res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ElementID < out[j].ElementID })
	return out, nil
}
