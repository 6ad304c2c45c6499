package interact

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/scene"
)

// Axis is the drag direction of a slider handle.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "unknown"
}

// ButtonId identifies a discrete gesture button. Ids start at 1.
type ButtonId uint32

// Control is a slider handle constrained to the segment [Min, Max] of Axis.
type Control struct {
	Entity *scene.Entity
	Axis   Axis
	Min    float32
	Max    float32
}

// Clamp projects p onto the control's track, keeping the handle's other
// coordinates where they are.
func (c Control) Clamp(p mgl32.Vec3) mgl32.Vec3 {
	out := c.Entity.Position
	out[c.Axis] = mgl32.Clamp(p[c.Axis], c.Min, c.Max)
	return out
}

// Tracker is the hand tracking collaborator. Once an entity is registered,
// the tracker alone moves it while it is grabbed.
type Tracker interface {
	RegisterDraggable(e *scene.Entity)
	RegisterControl(c Control)
	RegisterButton(id ButtonId, label string)
	// Gesture reports whether the gesture bound to id is held during the
	// current tick.
	Gesture(id ButtonId) bool
	// Execute resolves grab, release and gesture transitions for the tick.
	Execute(dt, elapsed float64)
}
