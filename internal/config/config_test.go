package config

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestParseKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte(`
log:
  level: debug
pens:
  selector:
    style: rectangle
history:
  max_len: 7
`))
	require.NoError(t, err)
	assert.Equal(t, SelectorRectangle, c.Pens.Selector.Style)
	assert.Equal(t, 7, c.History.MaxLen)
	assert.Equal(t, slog.LevelDebug, c.LogLevel())
	assert.Equal(t, Default().Pens.Typewriter, c.Pens.Typewriter)
	assert.Equal(t, 8888, c.Share.Port)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"style", "pens: {selector: {style: lasso}}"},
		{"level", "log: {level: loud}"},
		{"history", "history: {max_len: 0}"},
		{"port", "share: {port: 70000}"},
		{"syntax", "pens: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkboard.yaml")
	c := Default()
	c.Pens.Selector.ResizeLockAspectRatio = true
	c.Render.Workers = 3
	require.NoError(t, c.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
