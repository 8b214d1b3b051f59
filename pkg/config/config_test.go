package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"fig-", "chart-", "diagram-", "table-"}, cfg.Prefixes)
	assert.Equal(t, "images", cfg.OutputDirName)
	assert.Equal(t, 2.0, cfg.Scale)
	assert.Equal(t, 2400, cfg.ViewportWidth)
	assert.Equal(t, 1600, cfg.ViewportHeight)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay())
	assert.Equal(t, time.Duration(0), cfg.PageLoadTimeout())
	assert.False(t, cfg.ContinueOnLoadError)
	assert.Equal(t, "articles", cfg.ArticlesDir)
	assert.Equal(t, "8080", cfg.ServerPort)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CAPTURE_PREFIXES", " hero- , ,card-")
	t.Setenv("CAPTURE_SCALE", "1.5")
	t.Setenv("SETTLE_DELAY_MS", "0")
	t.Setenv("CONTINUE_ON_LOAD_ERROR", "true")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"hero-", "card-"}, cfg.Prefixes)
	assert.Equal(t, 1.5, cfg.Scale)
	assert.Equal(t, time.Duration(0), cfg.SettleDelay())
	assert.True(t, cfg.ContinueOnLoadError)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"no prefixes", "CAPTURE_PREFIXES", " , "},
		{"zero scale", "CAPTURE_SCALE", "0"},
		{"nested output dir", "OUTPUT_DIR_NAME", "a/b"},
		{"negative viewport", "VIEWPORT_WIDTH", "-1"},
		{"negative settle", "SETTLE_DELAY_MS", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
