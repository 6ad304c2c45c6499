package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/anim"
	"github.com/plus3/vrscene/audio"
	"github.com/plus3/vrscene/config"
	"github.com/plus3/vrscene/interact"
	"github.com/plus3/vrscene/render"
	"github.com/plus3/vrscene/scene"
	"github.com/plus3/vrscene/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, mutate ...func(*session.Options)) (*session.Session, *interact.ScriptedTracker) {
	t.Helper()
	cfg := config.Default()
	cfg.Audio.Enabled = false
	tracker := interact.NewScriptedTracker()
	opts := session.Options{
		Config:  cfg,
		Tracker: tracker,
		Clock:   anim.NewManualClock(1.0 / 60),
	}
	for _, m := range mutate {
		m(&opts)
	}
	s, err := session.New(context.Background(), opts)
	require.NoError(t, err)
	return s, tracker
}

func TestNew(t *testing.T) {
	t.Run("requires a tracker", func(t *testing.T) {
		_, err := session.New(context.Background(), session.Options{Config: config.Default()})
		assert.ErrorIs(t, err, session.ErrNoTracker)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Camera.Fov = 0
		_, err := session.New(context.Background(), session.Options{Config: cfg, Tracker: interact.NewScriptedTracker()})
		assert.ErrorIs(t, err, config.ErrInvalid)
	})

	t.Run("builds the reference scene", func(t *testing.T) {
		s, _ := newSession(t)

		assert.Equal(t, 14, s.Registry.Len())
		var names []string
		for _, e := range s.Registry.Iter() {
			names = append(names, e.Name)
		}
		assert.Equal(t, []string{
			"light", "lightHelper", "torusKnot", "plane", "cube", "cone", "speaker1", "speaker2",
			"sliderRed", "sliderGreen", "sliderBlue", "sliderAlpha", "sliderStripes", "sliderLight",
		}, names)

		assert.Equal(t, mgl32.Vec3{-1, 0, -2}, s.TorusKnot.Position)
		assert.Equal(t, mgl32.Vec3{0, 0, -2}, s.Cube.Position)
		assert.Equal(t, mgl32.Vec3{1, 0, -2}, s.Cone.Position)
		assert.Equal(t, mgl32.Vec3{-2, 0, -3}, s.Speakers[0].Position)
		assert.Equal(t, mgl32.Vec3{2, 0, -3}, s.Speakers[1].Position)
		assert.Equal(t, mgl32.Vec3{0, 2, -1}, s.Light.Position)
		assert.Equal(t, s.Light.Position, s.Helper.Position)
		assert.Equal(t, mgl32.Vec3{0, -1, -2}, s.Plane.Position)
		assert.Equal(t, mgl32.Vec3{190, 0, 0}, s.Plane.Rotation)
		assert.True(t, s.Plane.Shadow.Receive)
		assert.Equal(t, mgl32.Vec3{1, 1.5, -0.5}, s.Handles[3].Position)

		stats := s.Registry.CollectStats()
		assert.Equal(t, 5, stats.ShadowCasters)
		assert.Equal(t, 2, stats.Attachments)
		assert.Len(t, s.Sliders, 6)
		assert.Len(t, s.Layer.Buttons(), 4)
		assert.Len(t, s.Layer.Draggables(), 3)
		assert.InDelta(t, 1280.0/720.0, s.Camera.Aspect, 1e-6)
	})
}

func TestMoveObject(t *testing.T) {
	s, _ := newSession(t)

	s.MoveObject(s.Cube, 0, 0, -2)
	assert.Equal(t, mgl32.Vec3{0, 0, -2}, s.Cube.Position)
	assert.False(t, s.Cube.HasParam(scene.ParamPositionOffset))

	s.MoveObject(s.TorusKnot, -1, 0, -2)
	offset, ok := s.TorusKnot.Params.Vec3(scene.ParamPositionOffset)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{-1, 0, -2}, offset)
}

func TestRun(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	s, tracker := newSession(t, func(o *session.Options) { o.Registerer = reg })
	session.ScriptDemo(s, tracker)

	rec := render.NewRecorder(1280, 720)
	require.NoError(t, s.Start(rec))
	assert.Equal(t, 100, rec.Run(100))

	t.Run("spinning meshes", func(t *testing.T) {
		for _, e := range []*scene.Entity{s.Cube, s.Cone, s.TorusKnot} {
			assert.InDelta(t, 1.0, e.Rotation[0], 1e-4, e.Name)
		}
		assert.Equal(t, mgl32.Vec3{}, s.Speakers[0].Rotation)
	})

	t.Run("drag", func(t *testing.T) {
		assert.Equal(t, mgl32.Vec3{0, 0.5, -1.5}, s.Cube.Position)
	})

	t.Run("sliders write every scene object", func(t *testing.T) {
		for _, e := range s.SceneObjects() {
			red, _ := e.Params.Float(scene.ParamRed)
			assert.InDelta(t, 0.25, red, 1e-4, e.Name)
		}
		assert.True(t, s.Light.Position.ApproxEqualThreshold(s.Light.Track.To, 1e-4))
		lightPos, _ := s.Cone.Params.Vec3(scene.ParamLightPosition)
		assert.Equal(t, s.Light.Position, lightPos)
	})

	t.Run("buttons fired once", func(t *testing.T) {
		for _, b := range []*interact.Button{s.Buttons.Stripes, s.Buttons.Color, s.Buttons.Invert, s.Buttons.Audio} {
			assert.Equal(t, uint64(1), b.Fired(), b.Label)
		}
		stripes, _ := s.Cube.Params.Float(scene.ParamStripes)
		assert.Equal(t, float32(0), stripes)
		assert.False(t, s.Emitters[0].Playing(), "no buffer, toggle is a no-op")
	})

	t.Run("metrics", func(t *testing.T) {
		assert.Equal(t, uint64(100), s.Driver.Stats().Ticks)
		count, err := testutil.GatherAndCount(reg, "vrscene_ticks_total", "vrscene_button_fires_total")
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	require.NoError(t, s.Stop())
	assert.Equal(t, 0, rec.Run(10))
}

func TestResize(t *testing.T) {
	s, _ := newSession(t)
	assert.True(t, s.Resize(1600, 900))
	assert.InDelta(t, 16.0/9.0, s.Camera.Aspect, 1e-6)
	assert.False(t, s.Resize(1600, 900))
}

func TestAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, beep.Silence(441), beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}))
	require.NoError(t, f.Close())

	output := audio.NewOutput(nil)
	s, tracker := newSession(t, func(o *session.Options) {
		o.Config.Audio.Enabled = true
		o.Config.Audio.Path = path
		o.Loader = audio.NewLoader(44100)
		o.Output = output
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = s.Sound.Wait(ctx)
	require.NoError(t, err)

	assert.Same(t, s.Speakers[0], s.Emitters[0].Parent())
	assert.Equal(t, 0.5, s.Emitters[0].RefDistance())

	tracker.At(1, func(tr *interact.ScriptedTracker) { tr.SetGesture(s.Buttons.Audio.ID, true) })
	rec := render.NewRecorder(1280, 720)
	require.NoError(t, s.Start(rec))
	rec.Run(2)

	assert.True(t, s.Emitters[0].Playing())
	assert.True(t, s.Emitters[1].Playing())
	assert.Equal(t, 2, output.Voices())

	d := float64(s.Speakers[0].Position.Sub(s.Camera.Position).Len())
	assert.InDelta(t, audio.InverseDistanceGain(d, 0.5, 1), s.Emitters[0].Gain(), 1e-9)
}
