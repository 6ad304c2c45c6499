package interact

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/scene"
)

// ScriptStep runs at the start of a scripted tick.
type ScriptStep func(t *ScriptedTracker)

// ScriptedTracker replays a fixed sequence of hand actions. It stands in for
// a real hand tracker in headless runs and tests.
type ScriptedTracker struct {
	tick uint64

	draggables map[*scene.Entity]bool
	controls   map[*scene.Entity]Control
	labels     map[ButtonId]string
	gestures   map[ButtonId]bool
	steps      map[uint64][]ScriptStep
}

// NewScriptedTracker creates a tracker with an empty script.
func NewScriptedTracker() *ScriptedTracker {
	return &ScriptedTracker{
		draggables: make(map[*scene.Entity]bool),
		controls:   make(map[*scene.Entity]Control),
		labels:     make(map[ButtonId]string),
		gestures:   make(map[ButtonId]bool),
		steps:      make(map[uint64][]ScriptStep),
	}
}

func (t *ScriptedTracker) RegisterDraggable(e *scene.Entity) {
	t.draggables[e] = true
}

func (t *ScriptedTracker) RegisterControl(c Control) {
	t.controls[c.Entity] = c
}

func (t *ScriptedTracker) RegisterButton(id ButtonId, label string) {
	t.labels[id] = label
}

func (t *ScriptedTracker) Gesture(id ButtonId) bool {
	return t.gestures[id]
}

// At schedules step for the given tick. Ticks count from 1.
func (t *ScriptedTracker) At(tick uint64, step ScriptStep) *ScriptedTracker {
	t.steps[tick] = append(t.steps[tick], step)
	return t
}

// Execute advances the tick counter and runs the steps scheduled for it.
func (t *ScriptedTracker) Execute(dt, elapsed float64) {
	t.tick++
	for _, step := range t.steps[t.tick] {
		step(t)
	}
	delete(t.steps, t.tick)
}

// Tick returns the number of executed ticks.
func (t *ScriptedTracker) Tick() uint64 {
	return t.tick
}

// SetGesture holds or releases the gesture of a button.
func (t *ScriptedTracker) SetGesture(id ButtonId, held bool) {
	t.gestures[id] = held
}

// ButtonByLabel finds a registered button id.
func (t *ScriptedTracker) ButtonByLabel(label string) (ButtonId, bool) {
	for id, l := range t.labels {
		if l == label {
			return id, true
		}
	}
	return 0, false
}

// Drag moves a registered entity to p. Slider handles stay on their track.
// It reports false for entities the tracker does not own.
func (t *ScriptedTracker) Drag(e *scene.Entity, p mgl32.Vec3) bool {
	if c, ok := t.controls[e]; ok {
		p = c.Clamp(p)
	} else if !t.draggables[e] {
		return false
	}
	e.MoveTo(p[0], p[1], p[2])
	return true
}

// SlideTo moves a slider handle to normalized value v.
func (t *ScriptedTracker) SlideTo(e *scene.Entity, v float32) bool {
	c, ok := t.controls[e]
	if !ok {
		return false
	}
	p := e.Position
	p[c.Axis] = c.Min + mgl32.Clamp(v, 0, 1)*(c.Max-c.Min)
	e.MoveTo(p[0], p[1], p[2])
	return true
}
