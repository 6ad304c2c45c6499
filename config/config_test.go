package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float32(0.01), cfg.Animation.RotationStep)
	assert.Equal(t, 0.5, cfg.Audio.RefDistance)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg := Default()
	err := Decode([]byte(`
[window]
width = 800
height = 600

[animation]
rotation_step = 0.02

[debug]
addr = "127.0.0.1:9100"
`), &cfg)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "RTCG", cfg.Window.Title)
	assert.Equal(t, float32(0.02), cfg.Animation.RotationStep)
	assert.Equal(t, "127.0.0.1:9100", cfg.Debug.Addr)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "[window]\ncolour = 3\n"},
		{"zero width", "[window]\nwidth = 0\n"},
		{"fov out of range", "[camera]\nfov = 190.0\n"},
		{"far before near", "[camera]\nnear = 5.0\nfar = 1.0\n"},
		{"negative slider", "[sliders]\nlength = -1.0\n"},
		{"no ref distance", "[audio]\nref_distance = 0.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			assert.Error(t, Decode([]byte(tt.data), &cfg))
		})
	}
}

func TestLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Audio.Enabled = false
	cfg.Window.Title = "test"

	data, err := Encode(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
