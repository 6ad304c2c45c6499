package anim

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/scene"
)

// DefaultRotationStep is the per-tick rotation applied to every axis.
// It is not scaled by delta time, so the visible speed follows the display
// refresh rate.
const DefaultRotationStep = 0.01

// SpinSystem rotates a fixed set of entities on all three axes every tick.
//
// Angles are derived from the tick count rather than summed, so after N ticks
// each axis sits at base + N*Step mod 2π no matter how long the scene runs.
type SpinSystem struct {
	Step    float32
	members []*scene.Entity
	base    []mgl32.Vec3
	ticks   uint64

	step64  float64
	stepFor float32
}

// NewSpinSystem creates a spin system for members, starting from their current rotation.
func NewSpinSystem(step float32, members ...*scene.Entity) *SpinSystem {
	s := &SpinSystem{Step: step, members: members, base: make([]mgl32.Vec3, len(members))}
	for i, e := range members {
		s.base[i] = e.Rotation
	}
	return s
}

func (s *SpinSystem) Execute(*Frame) {
	s.ticks++
	angle := float64(s.ticks) * s.stepValue()
	for i, e := range s.members {
		b := s.base[i]
		e.Rotation = mgl32.Vec3{
			scene.WrapAngle(float64(b[0]) + angle),
			scene.WrapAngle(float64(b[1]) + angle),
			scene.WrapAngle(float64(b[2]) + angle),
		}
	}
}

// Ticks returns how many times the system has run.
func (s *SpinSystem) Ticks() uint64 {
	return s.ticks
}

// Members returns the rotated entities in registration order.
func (s *SpinSystem) Members() []*scene.Entity {
	return s.members
}

// stepValue widens Step using its shortest decimal form, so 0.01 stays 0.01
// instead of picking up float32 rounding that grows with the tick count.
func (s *SpinSystem) stepValue() float64 {
	if s.stepFor != s.Step || s.step64 == 0 {
		v, err := strconv.ParseFloat(strconv.FormatFloat(float64(s.Step), 'g', -1, 32), 64)
		if err != nil {
			v = float64(s.Step)
		}
		s.step64, s.stepFor = v, s.Step
	}
	return s.step64
}
