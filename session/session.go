// Package session assembles the demo scene and owns every object of it for
// the lifetime of one run.
package session

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/plus3/vrscene/anim"
	"github.com/plus3/vrscene/audio"
	"github.com/plus3/vrscene/config"
	"github.com/plus3/vrscene/interact"
	"github.com/plus3/vrscene/logging"
	"github.com/plus3/vrscene/scene"
	"github.com/plus3/vrscene/viewport"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var ErrNoTracker = errors.New("session needs a hand tracker")

var (
	white  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black  = color.RGBA{A: 0xff}
	yellow = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
)

// sliderDef places one slider sphere and names the parameter it drives.
type sliderDef struct {
	name  string
	param string
	color color.RGBA
	at    mgl32.Vec3
}

var sliderDefs = []sliderDef{
	{"sliderRed", scene.ParamRed, black, mgl32.Vec3{1, 1.8, 0.5}},
	{"sliderGreen", scene.ParamGreen, black, mgl32.Vec3{1, 1.7, 0.5}},
	{"sliderBlue", scene.ParamBlue, black, mgl32.Vec3{1, 1.6, 0.5}},
	{"sliderAlpha", scene.ParamAlpha, black, mgl32.Vec3{1, 1.5, -0.5}},
	{"sliderStripes", scene.ParamStripeFrequency, white, mgl32.Vec3{1, 1.4, 0.5}},
	{"sliderLight", scene.ParamLightPos, yellow, mgl32.Vec3{1, 1.3, 0}},
}

// Options carries the collaborators of a session. Zero values fall back to defaults.
type Options struct {
	Config  config.Config
	Tracker interact.Tracker

	// Loader decodes the speaker sound. Audio stays silent when nil.
	Loader *audio.Loader
	// Output mixes the emitters; a private mixer is used when nil.
	Output *audio.Output
	Clock  anim.Clock
	Logger *zap.Logger
	// Registerer receives the scene metrics; none are collected when nil.
	Registerer prometheus.Registerer
	// Surfaces are resized together with the camera.
	Surfaces []viewport.Surface
}

// Buttons are the gesture buttons of the scene.
type Buttons struct {
	Color   *interact.Button
	Stripes *interact.Button
	Invert  *interact.Button
	Audio   *interact.Button
}

// Session is the single owner of the scene, its interaction bindings and the
// animation driver.
type Session struct {
	ID     uuid.UUID
	Config config.Config

	Registry  *scene.Registry
	Camera    *scene.Camera
	Light     *scene.PointLight
	Helper    *scene.Entity
	TorusKnot *scene.Entity
	Cube      *scene.Entity
	Cone      *scene.Entity
	Plane     *scene.Entity
	Speakers  [2]*scene.Entity
	Handles   []*scene.Entity

	Layer   *interact.Layer
	Sliders []*interact.Slider
	Buttons Buttons

	Listener *audio.Listener
	Emitters [2]*audio.Positional
	Sound    *audio.Handle

	Spin     *anim.SpinSystem
	Driver   *anim.Driver
	Viewport *viewport.Binding

	log *zap.Logger
}

// New builds the reference scene. Any setup error aborts construction.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Tracker == nil {
		return nil, ErrNoTracker
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		ID:       uuid.New(),
		Config:   cfg,
		Registry: scene.NewRegistry(),
	}
	s.log = logging.OrNop(opts.Logger).With(zap.String("session", s.ID.String()))

	metrics, err := newMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	if err := s.createContent(); err != nil {
		return nil, fmt.Errorf("creating scene content: %w", err)
	}
	if err := s.register(); err != nil {
		return nil, fmt.Errorf("building render graph: %w", err)
	}
	s.place()

	layerOpts := []interact.Option{
		interact.WithLogger(s.log.Named("interact")),
		interact.WithSliders(interact.AxisX, cfg.Sliders.Length),
	}
	if metrics.interact != nil {
		layerOpts = append(layerOpts, interact.WithMetrics(metrics.interact))
	}
	if s.Layer, err = interact.NewLayer(opts.Tracker, s.Registry, layerOpts...); err != nil {
		return nil, err
	}
	if err := s.setupAudio(ctx, opts); err != nil {
		return nil, fmt.Errorf("setting up audio: %w", err)
	}
	if err := s.bind(); err != nil {
		return nil, fmt.Errorf("binding interactions: %w", err)
	}

	s.Spin = anim.NewSpinSystem(cfg.Animation.RotationStep, s.TorusKnot, s.Cone, s.Cube)

	driverOpts := []anim.Option{anim.WithLogger(s.log.Named("anim"))}
	if opts.Clock != nil {
		driverOpts = append(driverOpts, anim.WithClock(opts.Clock))
	}
	if metrics.anim != nil {
		driverOpts = append(driverOpts, anim.WithMetrics(metrics.anim))
	}
	s.Driver = anim.NewDriver(s.Registry, s.Camera, driverOpts...)
	s.Driver.RegisterNamed("interaction", s.Layer)
	s.Driver.RegisterNamed("spin", s.Spin)
	s.Driver.RegisterNamed("audio", audio.NewSystem(s.Listener, s.log.Named("audio"), s.Emitters[:]...))

	s.Viewport = viewport.New(s.Camera, opts.Surfaces...)
	s.Viewport.Resize(cfg.Window.Width, cfg.Window.Height)

	s.log.Info("Scene ready",
		zap.Int("entities", s.Registry.Len()),
		zap.Int("sliders", len(s.Sliders)),
		zap.Int("buttons", len(s.Layer.Buttons())))
	return s, nil
}

func (s *Session) createContent() error {
	cfg := s.Config.Camera
	s.Camera = scene.NewPerspectiveCamera(cfg.Fov, float32(s.Config.Window.Width)/float32(s.Config.Window.Height), cfg.Near, cfg.Far)
	s.Camera.Position = cfg.Eye
	s.Camera.LookAt(cfg.Look)

	s.Light = scene.NewPointLight(white, 1)
	s.Light.SetPosition(mgl32.Vec3{0, 2, -1})

	var err error
	if s.Helper, err = scene.NewLightHelper(s.Light, 0.15, yellow); err != nil {
		return err
	}
	if s.Cube, err = scene.NewCube(s.Light, s.Camera); err != nil {
		return err
	}
	if s.Cone, err = scene.NewCone(s.Light, s.Camera); err != nil {
		return err
	}
	if s.TorusKnot, err = scene.NewTorusKnot(s.Light, s.Camera); err != nil {
		return err
	}
	for i := range s.Speakers {
		if s.Speakers[i], err = scene.NewSpeaker(s.Light, s.Camera); err != nil {
			return err
		}
		s.Speakers[i].Name = fmt.Sprintf("speaker%d", i+1)
		s.Speakers[i].Shadow.Cast = true
	}
	s.Plane = scene.NewPlane()

	for _, def := range sliderDefs {
		handle := scene.NewSphere(def.color)
		handle.Name = def.name
		s.Handles = append(s.Handles, handle)
	}
	return nil
}

// register adds the entities in draw order.
func (s *Session) register() error {
	entities := []*scene.Entity{
		s.Light.Entity,
		s.Helper,
		s.TorusKnot,
		s.Plane,
		s.Cube,
		s.Cone,
		s.Speakers[0],
		s.Speakers[1],
	}
	entities = append(entities, s.Handles...)
	for _, e := range entities {
		if _, err := s.Registry.AddEntity(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) place() {
	s.MoveObject(s.TorusKnot, -1, 0, -2)
	s.MoveObject(s.Cube, 0, 0, -2)
	s.MoveObject(s.Cone, 1, 0, -2)
	s.MoveObject(s.Speakers[0], -2, 0, -3)
	s.MoveObject(s.Speakers[1], 2, 0, -3)

	for i, def := range sliderDefs {
		s.Handles[i].MoveTo(def.at[0], def.at[1], def.at[2])
	}

	s.Plane.MoveTo(0, -1, -2)
	// the plane tilt is a literal angle in radians
	s.Plane.Rotation = mgl32.Vec3{190, 0, 0}
}

func (s *Session) setupAudio(ctx context.Context, opts Options) error {
	output := opts.Output
	if output == nil {
		output = audio.NewOutput(nil)
	}

	s.Listener = audio.NewListener()
	s.Camera.Add(s.Listener)

	if opts.Loader != nil && s.Config.Audio.Enabled {
		s.Sound = opts.Loader.Load(ctx, s.Config.Audio.Path)
	}
	for i, speaker := range s.Speakers {
		emitter := audio.NewPositional(output)
		if s.Sound != nil {
			emitter.SetBuffer(s.Sound)
		}
		emitter.SetRefDistance(s.Config.Audio.RefDistance)
		if err := s.Registry.Attach(speaker.ID, emitter); err != nil {
			return err
		}
		s.Emitters[i] = emitter
	}
	return nil
}

// SceneObjects are the meshes the sliders and buttons act on.
func (s *Session) SceneObjects() []*scene.Entity {
	return []*scene.Entity{s.Cube, s.Cone, s.TorusKnot}
}

func (s *Session) bind() error {
	objects := s.SceneObjects()
	for _, e := range objects {
		if err := s.Layer.BindDraggable(e); err != nil {
			return err
		}
	}

	for i, def := range sliderDefs {
		var secondary interact.SecondaryTarget
		if def.param == scene.ParamLightPos {
			secondary = s.Light
		}
		slider, err := s.Layer.BindSlider(s.Handles[i], objects, def.param, secondary)
		if err != nil {
			return err
		}
		s.Sliders = append(s.Sliders, slider)
	}

	var err error
	if s.Buttons.Color, err = s.Layer.BindColorCycle(objects...); err != nil {
		return err
	}
	if s.Buttons.Stripes, err = s.Layer.BindToggle(objects...); err != nil {
		return err
	}
	if s.Buttons.Invert, err = s.Layer.BindInvert(objects...); err != nil {
		return err
	}
	s.Buttons.Audio, err = s.Layer.BindAudioToggle(s.Emitters[0], s.Emitters[1])
	return err
}

// MoveObject places an entity, mirroring the position into its shader when
// the material has a positionOffset slot.
func (s *Session) MoveObject(e *scene.Entity, x, y, z float32) {
	e.MoveTo(x, y, z)
}

// AddSystem appends a system after the built-in ones.
func (s *Session) AddSystem(name string, system anim.System) {
	s.Driver.RegisterNamed(name, system)
}

// Start begins animating on host.
func (s *Session) Start(host anim.Host) error {
	return s.Driver.Start(host)
}

// Stop halts the animation driver.
func (s *Session) Stop() error {
	return s.Driver.Stop()
}

// Resize is the window resize handler.
func (s *Session) Resize(width, height int) bool {
	return s.Viewport.Resize(width, height)
}

// Snapshot copies the current state of every entity.
func (s *Session) Snapshot() []scene.EntitySnapshot {
	return s.Registry.Snapshot()
}

type sessionMetrics struct {
	anim     *anim.Metrics
	interact *interact.Metrics
}

func newMetrics(reg prometheus.Registerer) (sessionMetrics, error) {
	var m sessionMetrics
	if reg == nil {
		return m, nil
	}
	var err error
	if m.anim, err = anim.NewMetrics(reg); err != nil {
		return m, err
	}
	if m.interact, err = interact.NewMetrics(reg); err != nil {
		return m, err
	}
	return m, nil
}
