// Package config loads the scene settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

var ErrInvalid = errors.New("invalid config")

// Config is the complete runtime configuration, loaded from TOML.
type Config struct {
	Window    Window    `toml:"window"`
	Camera    Camera    `toml:"camera"`
	Animation Animation `toml:"animation"`
	Sliders   Sliders   `toml:"sliders"`
	Audio     Audio     `toml:"audio"`
	Debug     Debug     `toml:"debug"`
	Log       Log       `toml:"log"`
}

// Window sizes the desktop window.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

// Camera holds the perspective parameters and the initial camera placement.
type Camera struct {
	// Fov is the vertical field of view in degrees.
	Fov  float32    `toml:"fov"`
	Near float32    `toml:"near"`
	Far  float32    `toml:"far"`
	Eye  [3]float32 `toml:"eye"`
	Look [3]float32 `toml:"look"`
}

// Animation tunes the per-tick animation.
type Animation struct {
	// RotationStep is added to every axis of the spinning meshes once per tick.
	RotationStep float32 `toml:"rotation_step"`
	// SyncWithDisplay ties the tick rate to the display refresh instead of a fixed TPS.
	SyncWithDisplay bool `toml:"sync_with_display"`
}

// Sliders configures the handle tracks created by the interaction layer.
type Sliders struct {
	// Length is the travel of a slider sphere along its drag axis, in meters.
	Length float32 `toml:"length"`
}

// Audio lists the looped speaker tracks and their distance model.
type Audio struct {
	Enabled     bool    `toml:"enabled"`
	Path        string  `toml:"path"`
	RefDistance float64 `toml:"ref_distance"`
	SampleRate  int     `toml:"sample_rate"`
}

// Debug enables the debug HTTP server and the ImGui overlay.
type Debug struct {
	// Addr enables the HTTP debug server when non-empty.
	Addr  string `toml:"addr"`
	Imgui bool   `toml:"imgui"`
}

// Log selects the logger flavor and level.
type Log struct {
	Dev   bool   `toml:"dev"`
	Level string `toml:"level"`
}

// Default returns the settings of the reference scene.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "RTCG",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: Camera{
			Fov:  70,
			Near: 0.1,
			Far:  100,
			Eye:  [3]float32{0, 1.6, 1.5},
			Look: [3]float32{0, 0.5, -2},
		},
		Animation: Animation{
			RotationStep:    0.01,
			SyncWithDisplay: true,
		},
		Sliders: Sliders{
			Length: 0.3,
		},
		Audio: Audio{
			Enabled:     true,
			Path:        "sounds/test.ogg",
			RefDistance: 0.5,
			SampleRate:  44100,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads path on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode merges TOML data into cfg and validates the result.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// Validate reports the first invalid setting wrapped in ErrInvalid.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return fmt.Errorf("%w: camera fov %v", ErrInvalid, c.Camera.Fov)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera clip range %v..%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Sliders.Length <= 0:
		return fmt.Errorf("%w: slider length %v", ErrInvalid, c.Sliders.Length)
	case c.Audio.Enabled && c.Audio.RefDistance <= 0:
		return fmt.Errorf("%w: audio ref distance %v", ErrInvalid, c.Audio.RefDistance)
	case c.Audio.Enabled && c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: audio sample rate %d", ErrInvalid, c.Audio.SampleRate)
	}
	return nil
}
