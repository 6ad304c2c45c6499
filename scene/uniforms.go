package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Well-known shader parameter names used by the primitive materials.
const (
	ParamPositionOffset  = "positionOffset"
	ParamLightPosition   = "lightPosition"
	ParamCameraPosition  = "cameraPosition"
	ParamRed             = "uSlider_Red"
	ParamGreen           = "uSlider_Green"
	ParamBlue            = "uSlider_Blue"
	ParamAlpha           = "uSlider_Alpha"
	ParamStripeFrequency = "uSlider_Stripe_Frequency"
	ParamLightPos        = "uLight_Pos"
	ParamStripes         = "uStripes"
	ParamInvert          = "uInvert"
	ParamColorIndex      = "uColorIndex"
)

// UniformKind is the value type stored in a uniform slot.
type UniformKind uint8

const (
	UniformFloat UniformKind = iota
	UniformVec3
)

func (k UniformKind) String() string {
	switch k {
	case UniformFloat:
		return "float"
	case UniformVec3:
		return "vec3"
	}
	return "unknown"
}

// Uniform is one named shader parameter slot.
type Uniform struct {
	Name  string
	Kind  UniformKind
	Float float32
	Vec3  mgl32.Vec3
}

// Uniforms is the fixed set of parameter slots of a material.
// Slots are declared when the material is built; setters never add new ones.
type Uniforms struct {
	slots map[string]*Uniform
	order []string
}

// NewUniforms creates an empty slot set. Slots are added with the Declare methods.
func NewUniforms() *Uniforms {
	return &Uniforms{slots: make(map[string]*Uniform)}
}

// DeclareFloat adds a float slot, or resets an existing slot of the same name.
func (u *Uniforms) DeclareFloat(name string, value float32) *Uniforms {
	u.declare(&Uniform{Name: name, Kind: UniformFloat, Float: value})
	return u
}

// DeclareVec3 adds a vec3 slot, or resets an existing slot of the same name.
func (u *Uniforms) DeclareVec3(name string, value mgl32.Vec3) *Uniforms {
	u.declare(&Uniform{Name: name, Kind: UniformVec3, Vec3: value})
	return u
}

func (u *Uniforms) declare(slot *Uniform) {
	if _, ok := u.slots[slot.Name]; !ok {
		u.order = append(u.order, slot.Name)
	}
	u.slots[slot.Name] = slot
}

// Has reports whether the named slot is declared. A nil set has no slots.
func (u *Uniforms) Has(name string) bool {
	if u == nil {
		return false
	}
	_, ok := u.slots[name]
	return ok
}

// Lookup returns the named slot for in-place edits.
func (u *Uniforms) Lookup(name string) (*Uniform, bool) {
	if u == nil {
		return nil, false
	}
	slot, ok := u.slots[name]
	return slot, ok
}

// SetFloat writes a float slot. It reports false when the slot is missing or not a float.
func (u *Uniforms) SetFloat(name string, value float32) bool {
	slot, ok := u.Lookup(name)
	if !ok || slot.Kind != UniformFloat {
		return false
	}
	slot.Float = value
	return true
}

// SetVec3 writes a vec3 slot. It reports false when the slot is missing or not a vec3.
func (u *Uniforms) SetVec3(name string, value mgl32.Vec3) bool {
	slot, ok := u.Lookup(name)
	if !ok || slot.Kind != UniformVec3 {
		return false
	}
	slot.Vec3 = value
	return true
}

// Float returns the value of a float slot.
func (u *Uniforms) Float(name string) (float32, bool) {
	slot, ok := u.Lookup(name)
	if !ok || slot.Kind != UniformFloat {
		return 0, false
	}
	return slot.Float, true
}

// Vec3 returns the value of a vec3 slot.
func (u *Uniforms) Vec3(name string) (mgl32.Vec3, bool) {
	slot, ok := u.Lookup(name)
	if !ok || slot.Kind != UniformVec3 {
		return mgl32.Vec3{}, false
	}
	return slot.Vec3, true
}

// Names returns the slot names in declaration order.
func (u *Uniforms) Names() []string {
	if u == nil {
		return nil
	}
	return slices.Clone(u.order)
}

// Len returns the number of declared slots.
func (u *Uniforms) Len() int {
	if u == nil {
		return 0
	}
	return len(u.order)
}
