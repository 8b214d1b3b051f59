package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/a/b/article.html", "article"},
		{"/a/b/my.article.htm", "my.article"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, BaseName(tt.path), tt.path)
	}
}

func TestOutputPath(t *testing.T) {
	doc := filepath.Join("/srv", "articles", "post.html")

	got := OutputPath(doc, "images", "fig-1")
	assert.Equal(t, filepath.Join("/srv", "articles", "images", "post", "fig-1.png"), got)
	assert.Equal(t, got, OutputPath(doc, "images", "fig-1"), "output path must be deterministic")
	assert.NotEqual(t, got, OutputPath(doc, "images", "fig-2"))
}

func TestSafeElementID(t *testing.T) {
	tests := []struct {
		id   string
		safe bool
	}{
		{"fig-1", true},
		{"fig-a.b", true},
		{"fig-..x", true},
		{"", false},
		{".", false},
		{"..", false},
		{"fig-x/../fig-b", false},
		{"fig-/../../../../etc/cron.d/x", false},
		{`fig-a\b`, false},
		{"fig-\x00", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.safe, SafeElementID(tt.id), tt.id)
	}
}

func TestFileURL(t *testing.T) {
	assert.Equal(t, "file:///srv/articles/a%20b.html", FileURL("/srv/articles/a b.html"))
}

func TestHasAnyPrefix(t *testing.T) {
	prefixes := []string{"fig-", "chart-"}
	assert.True(t, HasAnyPrefix("fig-1", prefixes))
	assert.True(t, HasAnyPrefix("chart-", prefixes))
	assert.False(t, HasAnyPrefix("figure", prefixes))
	assert.False(t, HasAnyPrefix("xfig-1", prefixes))
	assert.False(t, HasAnyPrefix("fig-1", nil))
}

func TestHashPath(t *testing.T) {
	assert.Len(t, HashPath("/a"), 64)
	assert.Equal(t, HashPath("/a"), HashPath("/a"))
	assert.NotEqual(t, HashPath("/a"), HashPath("/b"))
}
