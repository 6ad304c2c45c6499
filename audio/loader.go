// Package audio loads sound assets in the background and plays them through
// positional emitters attached to scene entities.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/plus3/vrscene/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

const DefaultSampleRate beep.SampleRate = 44100

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger used for load outcomes.
func WithLoaderLogger(l *zap.Logger) LoaderOption {
	return func(loader *Loader) { loader.log = logging.OrNop(l) }
}

// WithLoaderMetrics counts load outcomes in m.
func WithLoaderMetrics(m *Metrics) LoaderOption {
	return func(loader *Loader) { loader.metrics = m }
}

// Loader decodes audio files into in-memory buffers at a fixed sample rate.
type Loader struct {
	SampleRate beep.SampleRate

	log     *zap.Logger
	metrics *Metrics
}

// NewLoader creates a loader resampling every track to rate.
func NewLoader(rate beep.SampleRate, opts ...LoaderOption) *Loader {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	l := &Loader{SampleRate: rate, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load starts decoding path on a new goroutine. ctx is only checked before
// decoding starts.
func (l *Loader) Load(ctx context.Context, path string) *Handle {
	h := newHandle(path)
	go func() {
		buf, err := l.decode(ctx, path)
		if err != nil {
			l.log.Warn("Audio load failed", zap.String("path", path), zap.Error(err))
		} else {
			l.log.Info("Audio loaded", zap.String("path", path), zap.Int("samples", buf.Len()))
		}
		if l.metrics != nil {
			l.metrics.observeLoad(err)
		}
		h.resolve(buf, err)
	}()
	return h
}

func (l *Loader) decode(ctx context.Context, path string) (*beep.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ogg" && ext != ".wav" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	if ext == ".ogg" {
		stream, format, err = vorbis.Decode(f)
	} else {
		stream, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if format.SampleRate != l.SampleRate {
		s = beep.Resample(4, format.SampleRate, l.SampleRate, stream)
		format.SampleRate = l.SampleRate
	}

	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return buf, nil
}

// Metrics holds the audio collectors.
type Metrics struct {
	loads *prometheus.CounterVec
}

// NewMetrics creates and registers the audio collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrscene_audio_loads_total",
			Help: "Audio asset loads by outcome",
		}, []string{"outcome"}),
	}
	if err := reg.Register(m.loads); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observeLoad(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.loads.WithLabelValues(outcome).Inc()
}
