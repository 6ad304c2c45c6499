// Package anim drives the per-frame update of a scene: it samples the clock,
// runs the registered systems in order and submits the scene for rendering
// once per display refresh.
package anim

import (
	"errors"
	"reflect"
	"time"

	"github.com/plus3/vrscene/logging"
	"github.com/plus3/vrscene/scene"
	"go.uber.org/zap"
)

var (
	ErrAlreadyRunning = errors.New("driver already running")
	ErrNotRunning     = errors.New("driver not running")
	ErrNoHost         = errors.New("driver needs a host")
)

// State is the lifecycle state of a Driver.
type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	}
	return "unknown"
}

// Renderer submits a scene to the display.
type Renderer interface {
	// UpdateXRCamera lets the headset pose override the camera before any
	// transform is read during the tick.
	UpdateXRCamera(camera *scene.Camera)
	Render(reg *scene.Registry, camera *scene.Camera)
}

// Host is a Renderer that owns the display refresh callback.
type Host interface {
	Renderer
	// SetAnimationLoop installs loop to run once per display refresh.
	// A nil loop uninstalls the current one.
	SetAnimationLoop(loop func())
}

// Stats provides statistics about driver execution.
type Stats struct {
	State   State
	Ticks   uint64
	Elapsed float64
	Systems []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

// Option configures a Driver.
type Option func(*Driver)

// WithClock replaces the wall clock, for headless runs and tests.
func WithClock(c Clock) Option {
	return func(d *Driver) { d.clock = c }
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) { d.log = logging.OrNop(l) }
}

// WithMetrics records tick and system durations in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// Driver runs the per-tick update. It starts Stopped; Start installs the tick
// on the host's refresh callback and Stop removes it again.
type Driver struct {
	scene  *scene.Registry
	camera *scene.Camera
	clock  Clock
	host   Host
	state  State

	systems     []System
	systemStats []*systemStatsInternal
	commands    Commands
	frame       Frame

	ticks   uint64
	elapsed float64

	log     *zap.Logger
	metrics *Metrics
}

// NewDriver creates a stopped driver for the scene in reg viewed by camera.
func NewDriver(reg *scene.Registry, camera *scene.Camera, opts ...Option) *Driver {
	d := &Driver{
		scene:  reg,
		camera: camera,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.clock == nil {
		d.clock = NewClock()
	}
	return d
}

// Register appends a system. Systems run in registration order.
func (d *Driver) Register(system System) {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	d.RegisterNamed(systemType.Name(), system)
}

// RegisterNamed appends a system under an explicit name for stats and metrics.
func (d *Driver) RegisterNamed(name string, system System) {
	d.systems = append(d.systems, system)
	d.systemStats = append(d.systemStats, &systemStatsInternal{
		name:        name,
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Start transitions Stopped to Running and hands the tick to host.
func (d *Driver) Start(host Host) error {
	if host == nil {
		return ErrNoHost
	}
	if d.state == Running {
		return ErrAlreadyRunning
	}
	d.host = host
	d.state = Running
	host.SetAnimationLoop(d.Tick)
	d.log.Info("Animation driver started", zap.Int("systems", len(d.systems)))
	return nil
}

// Stop transitions Running to Stopped and uninstalls the tick from the host.
func (d *Driver) Stop() error {
	if d.state != Running {
		return ErrNotRunning
	}
	d.host.SetAnimationLoop(nil)
	d.state = Stopped
	d.log.Info("Animation driver stopped", zap.Uint64("ticks", d.ticks))
	return nil
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// Ticks returns the number of ticks run since creation.
func (d *Driver) Ticks() uint64 {
	return d.ticks
}

// Tick runs one update. Ticks delivered while Stopped are ignored.
func (d *Driver) Tick() {
	if d.state != Running {
		return
	}
	start := time.Now()

	dt, elapsed := d.clock.Sample()
	d.ticks++
	d.elapsed = elapsed

	d.host.UpdateXRCamera(d.camera)

	d.frame = Frame{
		Tick:      d.ticks,
		DeltaTime: dt,
		Elapsed:   elapsed,
		Scene:     d.scene,
		Camera:    d.camera,
		Commands:  &d.commands,
	}
	for i, system := range d.systems {
		systemStart := time.Now()
		system.Execute(&d.frame)
		duration := time.Since(systemStart)

		stats := d.systemStats[i]
		stats.record(duration)
		if d.metrics != nil {
			d.metrics.systemDuration.WithLabelValues(stats.name).Observe(duration.Seconds())
		}
	}
	d.commands.flush()

	d.host.Render(d.scene, d.camera)

	if d.metrics != nil {
		d.metrics.ticks.Inc()
		d.metrics.tickDuration.Observe(time.Since(start).Seconds())
	}
}

// Stats returns statistics about system execution.
func (d *Driver) Stats() *Stats {
	stats := &Stats{
		State:   d.state,
		Ticks:   d.ticks,
		Elapsed: d.elapsed,
		Systems: make([]SystemStats, len(d.systemStats)),
	}

	for i, internal := range d.systemStats {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
	}
	return stats
}
