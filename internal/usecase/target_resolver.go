package usecase

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/user/capture-service/internal/entity"
	"github.com/user/capture-service/internal/repository"
	"github.com/user/capture-service/pkg/utils"
)

var documentExtensions = []string{".html", ".htm"}

// TargetResolver turns command-line arguments into capture targets.
type TargetResolver struct {
	articlesDir string
	searchRoots []string
}

// NewTargetResolver searches <root>/<articlesDir> for each root, in order,
// when no explicit paths are given.
func NewTargetResolver(articlesDir string, searchRoots ...string) *TargetResolver {
	return &TargetResolver{articlesDir: articlesDir, searchRoots: searchRoots}
}

// Resolve returns the explicit paths when args is non-empty, otherwise the
// documents of the first articles directory that has any.
func (r *TargetResolver) Resolve(args []string) ([]entity.CaptureTarget, error) {
	if len(args) > 0 {
		return r.ResolvePaths(args)
	}

	for _, root := range r.searchRoots {
		if root == "" {
			continue
		}
		targets := scanDir(filepath.Join(root, r.articlesDir))
		if len(targets) > 0 {
			return targets, nil
		}
	}
	return nil, repository.ErrNoInput
}

// ResolvePaths keeps existing files, expands directories to the documents
// they contain and drops everything else without complaint.
func (r *TargetResolver) ResolvePaths(paths []string) ([]entity.CaptureTarget, error) {
	seen := make(map[string]bool)
	var targets []entity.CaptureTarget

	add := func(t entity.CaptureTarget) {
		if !seen[t.Path] {
			seen[t.Path] = true
			targets = append(targets, t)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.IsDir() {
			for _, t := range scanDir(p) {
				add(t)
			}
			continue
		}
		t, err := NewTarget(p)
		if err != nil {
			continue
		}
		add(t)
	}

	if len(targets) == 0 {
		return nil, repository.ErrNoInput
	}
	return targets, nil
}

// NewTarget resolves path to an absolute capture target.
func NewTarget(path string) (entity.CaptureTarget, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return entity.CaptureTarget{}, err
	}
	return entity.CaptureTarget{
		Path:     abs,
		Dir:      filepath.Dir(abs),
		BaseName: utils.BaseName(abs),
	}, nil
}

// scanDir lists the documents directly inside dir, sorted by name.
func scanDir(dir string) []entity.CaptureTarget {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var targets []entity.CaptureTarget
	for _, e := range entries {
		if !e.Type().IsRegular() || !isDocument(e.Name()) {
			continue
		}
		t, err := NewTarget(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		targets = append(targets, t)
	}
	return targets
}

func isDocument(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range documentExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
