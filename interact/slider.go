package interact

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/scene"
)

// SecondaryTarget receives slider values for a non-visual property, such as
// the position of a light.
type SecondaryTarget interface {
	ApplySlider(param string, v float32)
}

// Slider maps the displacement of a control handle along its axis to a
// normalized value written into one shader parameter on every target.
type Slider struct {
	Control   Control
	Targets   []*scene.Entity
	Param     string
	Secondary SecondaryTarget

	value   float32
	applied bool
}

// Value returns the last value written to the targets.
func (s *Slider) Value() float32 {
	return s.value
}

// Length is the travel of the handle along its axis.
func (s *Slider) Length() float32 {
	return s.Control.Max - s.Control.Min
}

// Normalized returns the handle position mapped into [0, 1].
func (s *Slider) Normalized() float32 {
	length := s.Length()
	if length <= 0 {
		return 0
	}
	p := s.Control.Entity.Position[s.Control.Axis]
	return mgl32.Clamp((p-s.Control.Min)/length, 0, 1)
}

// PositionFor returns where the handle sits for value v.
func (s *Slider) PositionFor(v float32) mgl32.Vec3 {
	p := s.Control.Entity.Position
	p[s.Control.Axis] = s.Control.Min + mgl32.Clamp(v, 0, 1)*s.Length()
	return p
}

// resolve writes the current handle value to the targets when it changed.
func (s *Slider) resolve() bool {
	v := s.Normalized()
	if s.applied && v == s.value {
		return false
	}
	s.value = v
	s.applied = true
	for _, t := range s.Targets {
		t.Params.SetFloat(s.Param, v)
	}
	if s.Secondary != nil {
		s.Secondary.ApplySlider(s.Param, v)
	}
	return true
}
