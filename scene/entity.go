package scene

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// EntityId identifies an entity inside a Registry. Zero means "not added".
type EntityId uint32

// Kind selects how an entity is drawn.
type Kind uint8

const (
	KindCube Kind = iota + 1
	KindCone
	KindTorusKnot
	KindPlane
	KindSphere
	KindSpeaker
	KindLight
	KindLightHelper
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindCube:
		return "cube"
	case KindCone:
		return "cone"
	case KindTorusKnot:
		return "torusKnot"
	case KindPlane:
		return "plane"
	case KindSphere:
		return "sphere"
	case KindSpeaker:
		return "speaker"
	case KindLight:
		return "light"
	case KindLightHelper:
		return "lightHelper"
	case KindCamera:
		return "camera"
	}
	return "unknown"
}

// Shadow holds the shadow flags of a mesh.
type Shadow struct {
	Cast    bool
	Receive bool
}

// Attachment is anything that can ride along with an entity, such as a
// positional audio emitter or the audio listener on the camera.
type Attachment interface {
	Attached(parent *Entity)
}

// Entity is a placeable renderable or audible object.
type Entity struct {
	ID   EntityId
	Name string
	Kind Kind

	Position mgl32.Vec3
	// Rotation holds Euler angles in radians, applied X then Y then Z.
	Rotation mgl32.Vec3
	// Size is the bounding radius used for drawing and picking.
	Size  float32
	Color color.RGBA

	Shadow Shadow

	// Params is nil for entities without a shader material.
	Params *Uniforms

	attachments []Attachment
}

// HasParam reports whether the entity's material declares the named slot.
func (e *Entity) HasParam(name string) bool {
	return e.Params.Has(name)
}

// MoveTo sets the world position and mirrors it into the positionOffset
// slot when the material has one, so the shader sees the same placement.
func (e *Entity) MoveTo(x, y, z float32) {
	e.Position = mgl32.Vec3{x, y, z}
	if e.HasParam(ParamPositionOffset) {
		e.Params.SetVec3(ParamPositionOffset, e.Position)
	}
}

// Rotate adds the given angles to the rotation, wrapping each axis into [0, 2π).
func (e *Entity) Rotate(dx, dy, dz float32) {
	e.Rotation = mgl32.Vec3{
		WrapAngle(float64(e.Rotation[0]) + float64(dx)),
		WrapAngle(float64(e.Rotation[1]) + float64(dy)),
		WrapAngle(float64(e.Rotation[2]) + float64(dz)),
	}
}

// Add attaches a child to the entity.
func (e *Entity) Add(a Attachment) {
	e.attachments = append(e.attachments, a)
	a.Attached(e)
}

// Attachments returns the children in attach order.
func (e *Entity) Attachments() []Attachment {
	return e.attachments
}

// WrapAngle reduces a into [0, 2π).
func WrapAngle(a float64) float32 {
	const twoPi = 2 * math.Pi
	w := math.Mod(a, twoPi)
	if w < 0 {
		w += twoPi
	}
	if r := float32(w); r < float32(twoPi) {
		return r
	}
	return 0
}
