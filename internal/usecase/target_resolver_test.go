package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/capture-service/internal/repository"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))
	return path
}

func TestResolve_ExplicitPathsFilterMissing(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "a.html"))
	b := touch(t, filepath.Join(dir, "b.htm"))

	r := NewTargetResolver("articles")
	targets, err := r.Resolve([]string{a, filepath.Join(dir, "missing.html"), b, a})
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, a, targets[0].Path)
	assert.Equal(t, "a", targets[0].BaseName)
	assert.Equal(t, dir, targets[0].Dir)
	assert.Equal(t, "b", targets[1].BaseName)
}

func TestResolve_OnlyMissingPaths(t *testing.T) {
	r := NewTargetResolver("articles")
	_, err := r.Resolve([]string{filepath.Join(t.TempDir(), "nope.html")})
	assert.ErrorIs(t, err, repository.ErrNoInput)
}

func TestResolve_RelativePathBecomesAbsolute(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "rel.html"))
	chdir(t, dir)

	targets, err := NewTargetResolver("articles").Resolve([]string{"rel.html"})
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.True(t, filepath.IsAbs(targets[0].Path))
}

func TestResolve_DirectoryArgument(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "2.html"))
	touch(t, filepath.Join(dir, "1.HTML"))
	touch(t, filepath.Join(dir, "notes.txt"))

	targets, err := NewTargetResolver("articles").Resolve([]string{dir})
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "1", targets[0].BaseName)
	assert.Equal(t, "2", targets[1].BaseName)
}

func TestResolve_ArticlesFallbackOrder(t *testing.T) {
	scriptRoot := t.TempDir()
	cwdRoot := t.TempDir()
	touch(t, filepath.Join(cwdRoot, "articles", "from-cwd.html"))

	r := NewTargetResolver("articles", scriptRoot, cwdRoot)
	targets, err := r.Resolve(nil)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "from-cwd", targets[0].BaseName)

	touch(t, filepath.Join(scriptRoot, "articles", "from-script.html"))
	targets, err = r.Resolve(nil)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "from-script", targets[0].BaseName, "the executable's directory wins")
}

func TestResolve_NoArticles(t *testing.T) {
	r := NewTargetResolver("articles", t.TempDir(), "")
	_, err := r.Resolve(nil)
	assert.ErrorIs(t, err, repository.ErrNoInput)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
