package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/anim"
	"github.com/plus3/vrscene/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSilence(t *testing.T, rate beep.SampleRate, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "silence.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(samples), format))
	return path
}

func waitLoaded(t *testing.T, h *Handle) (*beep.Buffer, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.Wait(ctx)
}

func TestHandle(t *testing.T) {
	h := newHandle("a.ogg")
	assert.Equal(t, Pending, h.State())
	assert.Nil(t, h.Buffer())
	assert.NoError(t, h.Err())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	boom := errors.New("boom")
	h.resolve(nil, boom)
	assert.Equal(t, Failed, h.State())
	assert.ErrorIs(t, h.Err(), boom)
	select {
	case <-h.Done():
	default:
		t.Fatal("done channel not closed")
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2})
	ready := Resolved(buf)
	assert.Equal(t, Ready, ready.State())
	assert.Same(t, buf, ready.Buffer())
}

func TestLoader(t *testing.T) {
	t.Run("decodes and resamples wav", func(t *testing.T) {
		reg := prometheus.NewPedanticRegistry()
		metrics, err := NewMetrics(reg)
		require.NoError(t, err)
		loader := NewLoader(44100, WithLoaderMetrics(metrics))

		h := loader.Load(context.Background(), writeSilence(t, 22050, 1000))
		buf, err := waitLoaded(t, h)
		require.NoError(t, err)
		assert.Equal(t, beep.SampleRate(44100), buf.Format().SampleRate)
		assert.InDelta(t, 2000, buf.Len(), 20)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.loads.WithLabelValues("ok")))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		h := NewLoader(0).Load(context.Background(), "song.mp3")
		_, err := waitLoaded(t, h)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.Equal(t, Failed, h.State())
	})

	t.Run("missing file", func(t *testing.T) {
		h := NewLoader(0).Load(context.Background(), filepath.Join(t.TempDir(), "nope.ogg"))
		_, err := waitLoaded(t, h)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled before decoding", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		h := NewLoader(0).Load(ctx, writeSilence(t, 44100, 10))
		<-h.Done()
		assert.ErrorIs(t, h.Err(), context.Canceled)
	})
}

func TestInverseDistanceGain(t *testing.T) {
	tests := []struct {
		name    string
		d       float64
		want    float64
		rolloff float64
	}{
		{"inside ref distance", 0.2, 1, 1},
		{"at ref distance", 0.5, 1, 1},
		{"one meter past", 1.5, 1.0 / 3.0, 1},
		{"no rolloff", 10, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, InverseDistanceGain(tt.d, 0.5, tt.rolloff), 1e-9)
		})
	}
}

func TestPositional(t *testing.T) {
	speaker := &scene.Entity{Name: "speaker", Position: mgl32.Vec3{2, 0, -3}}
	camera := &scene.Entity{Name: "camera"}

	output := NewOutput(nil)
	emitter := NewPositional(output)
	emitter.SetRefDistance(0.5)
	speaker.Add(emitter)
	listener := NewListener()
	camera.Add(listener)

	t.Run("no-op while pending", func(t *testing.T) {
		emitter.SetBuffer(newHandle("pending.ogg"))
		assert.False(t, emitter.Play())
		assert.False(t, emitter.Toggle())
		emitter.Pause()
		assert.False(t, emitter.Playing())
		assert.Equal(t, 0, output.Voices())
	})

	t.Run("plays once ready", func(t *testing.T) {
		buf := beep.NewBuffer(beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2})
		buf.Append(beep.Silence(100))
		emitter.SetBuffer(Resolved(buf))

		assert.True(t, emitter.Toggle())
		assert.True(t, emitter.Playing())
		assert.Equal(t, 1, output.Voices())

		samples := make([][2]float64, 512)
		n, ok := output.Streamer().Stream(samples)
		assert.True(t, ok)
		assert.Equal(t, 512, n, "the loop never drains")

		assert.False(t, emitter.Toggle())
		assert.True(t, emitter.Play())
		assert.Equal(t, 1, output.Voices(), "resuming reuses the voice")
	})

	t.Run("system follows the listener", func(t *testing.T) {
		system := NewSystem(listener, nil, emitter)
		system.Execute(&anim.Frame{})
		d := float64(speaker.Position.Len())
		assert.InDelta(t, 0.5/(0.5+(d-0.5)), emitter.Gain(), 1e-6)

		camera.Position = mgl32.Vec3{2, 0, -3}
		system.Execute(&anim.Frame{})
		assert.InDelta(t, 1, emitter.Gain(), 1e-9)
		assert.Equal(t, float64(0), emitter.volume.Volume)
	})
}
