package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "lrp", cfg.Attribution.Method)
	assert.Equal(t, 1e-4, cfg.Attribution.Epsilon)
	assert.Equal(t, 100, cfg.Attribution.Steps)
	assert.Equal(t, "Reds", cfg.Render.PosColormap)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lucent.yaml")
	content := []byte(`
attribution:
  method: ig
  steps: 25
render:
  pos_colormap: Greens
  threshold: 0.2
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ig", cfg.Attribution.Method)
	assert.Equal(t, 25, cfg.Attribution.Steps)
	assert.Equal(t, "Greens", cfg.Render.PosColormap)
	assert.Equal(t, 0.2, cfg.Render.Threshold)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, "Blues", cfg.Render.NegColormap)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("attribution: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Attribution.Method = "shapley"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Attribution.Epsilon = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Attribution.Method = "ig"
	cfg.Attribution.Steps = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Logging.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := DefaultConfig()
	cfg.Attribution.Method = "gradient"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
