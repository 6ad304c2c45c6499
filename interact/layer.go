// Package interact binds scene entities to hand tracking affordances:
// draggable meshes, slider handles driving shader parameters, and gesture
// buttons firing discrete actions.
package interact

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"
	"github.com/plus3/vrscene/anim"
	"github.com/plus3/vrscene/logging"
	"github.com/plus3/vrscene/scene"
	"go.uber.org/zap"
)

var (
	ErrNilTracker    = errors.New("interaction layer needs a tracker")
	ErrUnregistered  = errors.New("entity not in registry")
	ErrUnknownParam  = errors.New("unknown shader parameter")
	ErrNoTargets     = errors.New("no targets")
	ErrInvalidLength = errors.New("slider length must be positive")
)

// DefaultSliderLength is the handle travel in meters.
const DefaultSliderLength = 0.3

// Option configures a Layer.
type Option func(*Layer)

// WithLogger sets the logger for bindings and button fires.
func WithLogger(l *zap.Logger) Option {
	return func(layer *Layer) { layer.log = logging.OrNop(l) }
}

// WithMetrics counts button fires and slider changes in m.
func WithMetrics(m *Metrics) Option {
	return func(layer *Layer) { layer.metrics = m }
}

// WithSliders sets the axis and travel used by BindSlider.
func WithSliders(axis Axis, length float32) Option {
	return func(layer *Layer) {
		layer.sliderAxis = axis
		layer.sliderLength = length
	}
}

// Layer owns the interaction bindings of a scene.
type Layer struct {
	tracker Tracker
	scene   *scene.Registry

	draggables []*scene.Entity
	sliders    []*Slider
	buttons    *intmap.Map[ButtonId, *Button]
	order      []ButtonId
	nextButton ButtonId

	sliderAxis   Axis
	sliderLength float32

	log     *zap.Logger
	metrics *Metrics
}

// NewLayer creates a layer binding entities of reg to tracker.
func NewLayer(tracker Tracker, reg *scene.Registry, opts ...Option) (*Layer, error) {
	if tracker == nil {
		return nil, ErrNilTracker
	}
	l := &Layer{
		tracker:      tracker,
		scene:        reg,
		buttons:      intmap.New[ButtonId, *Button](8),
		sliderAxis:   AxisX,
		sliderLength: DefaultSliderLength,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.sliderLength <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLength, l.sliderLength)
	}
	return l, nil
}

func (l *Layer) registered(e *scene.Entity) error {
	if !l.scene.Contains(e) {
		name := "<nil>"
		if e != nil {
			name = e.Name
		}
		return fmt.Errorf("%w: %s", ErrUnregistered, name)
	}
	return nil
}

func (l *Layer) checkTargets(targets []*scene.Entity, param string) error {
	if len(targets) == 0 {
		return ErrNoTargets
	}
	for _, t := range targets {
		if err := l.registered(t); err != nil {
			return err
		}
		slot, ok := t.Params.Lookup(param)
		if !ok || slot.Kind != scene.UniformFloat {
			return fmt.Errorf("%w: %s on %s", ErrUnknownParam, param, t.Name)
		}
	}
	return nil
}

// BindDraggable hands e to the tracker as a grabbable entity.
func (l *Layer) BindDraggable(e *scene.Entity) error {
	if err := l.registered(e); err != nil {
		return err
	}
	l.draggables = append(l.draggables, e)
	l.tracker.RegisterDraggable(e)
	return nil
}

// BindSlider makes control a one dimensional slider writing param on every
// target. The handle track is placed so that the handle's current position
// matches the current value of param on the first target.
func (l *Layer) BindSlider(control *scene.Entity, targets []*scene.Entity, param string, secondary SecondaryTarget) (*Slider, error) {
	if err := l.registered(control); err != nil {
		return nil, err
	}
	if err := l.checkTargets(targets, param); err != nil {
		return nil, err
	}

	initial, _ := targets[0].Params.Float(param)
	initial = mgl32.Clamp(initial, 0, 1)
	start := control.Position[l.sliderAxis] - initial*l.sliderLength

	s := &Slider{
		Control: Control{
			Entity: control,
			Axis:   l.sliderAxis,
			Min:    start,
			Max:    start + l.sliderLength,
		},
		Targets:   targets,
		Param:     param,
		Secondary: secondary,
	}
	l.sliders = append(l.sliders, s)
	l.tracker.RegisterControl(s.Control)
	l.log.Debug("Slider bound", zap.String("param", param), zap.Int("targets", len(targets)), zap.Float32("initial", initial))
	return s, nil
}

// BindButton registers a gesture button running action once per trigger.
func (l *Layer) BindButton(label string, action func()) *Button {
	l.nextButton++
	b := &Button{ID: l.nextButton, Label: label, action: action}
	l.buttons.Put(b.ID, b)
	l.order = append(l.order, b.ID)
	l.tracker.RegisterButton(b.ID, label)
	return b
}

// BindToggle flips the stripes on the targets.
func (l *Layer) BindToggle(targets ...*scene.Entity) (*Button, error) {
	if err := l.checkTargets(targets, scene.ParamStripes); err != nil {
		return nil, err
	}
	return l.BindButton("stripes", func() { flipParam(targets, scene.ParamStripes) }), nil
}

// BindColorCycle advances the targets through scene.Palette.
func (l *Layer) BindColorCycle(targets ...*scene.Entity) (*Button, error) {
	if err := l.checkTargets(targets, scene.ParamColorIndex); err != nil {
		return nil, err
	}
	return l.BindButton("color", func() { cycleColor(targets) }), nil
}

// BindInvert flips color inversion on the targets.
func (l *Layer) BindInvert(targets ...*scene.Entity) (*Button, error) {
	if err := l.checkTargets(targets, scene.ParamInvert); err != nil {
		return nil, err
	}
	return l.BindButton("invert", func() { flipParam(targets, scene.ParamInvert) }), nil
}

// BindAudioToggle starts or pauses the emitters. Emitters without a loaded
// buffer ignore the toggle.
func (l *Layer) BindAudioToggle(emitters ...Playable) (*Button, error) {
	if len(emitters) == 0 {
		return nil, ErrNoTargets
	}
	return l.BindButton("audio", func() {
		for _, e := range emitters {
			e.Toggle()
		}
	}), nil
}

// Update runs the tracker for this tick, then applies slider values and
// fires buttons whose gesture started this tick.
func (l *Layer) Update(dt, elapsed float64) {
	l.tracker.Execute(dt, elapsed)

	for _, s := range l.sliders {
		if s.resolve() && l.metrics != nil {
			l.metrics.sliderChanges.WithLabelValues(s.Param).Inc()
		}
	}

	for _, id := range l.order {
		b, _ := l.buttons.Get(id)
		if b.observe(l.tracker.Gesture(id)) {
			l.log.Debug("Button fired", zap.String("button", b.Label), zap.Uint64("count", b.fired))
			if l.metrics != nil {
				l.metrics.buttonFires.WithLabelValues(b.Label).Inc()
			}
		}
	}
}

// Execute implements anim.System.
func (l *Layer) Execute(frame *anim.Frame) {
	l.Update(frame.DeltaTime, frame.Elapsed)
}

// Button returns the button with id, or nil.
func (l *Layer) Button(id ButtonId) *Button {
	b, _ := l.buttons.Get(id)
	return b
}

// Buttons returns the buttons in bind order.
func (l *Layer) Buttons() []*Button {
	out := make([]*Button, 0, len(l.order))
	for _, id := range l.order {
		b, _ := l.buttons.Get(id)
		out = append(out, b)
	}
	return out
}

// Sliders returns the sliders in bind order.
func (l *Layer) Sliders() []*Slider {
	return l.sliders
}

// Draggables returns the entities bound as draggable.
func (l *Layer) Draggables() []*scene.Entity {
	return l.draggables
}
