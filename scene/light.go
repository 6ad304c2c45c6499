package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// LightTrack is the segment a slider-driven light travels along.
type LightTrack struct {
	From mgl32.Vec3
	To   mgl32.Vec3
}

// At returns the point at normalized position v along the track.
func (t LightTrack) At(v float32) mgl32.Vec3 {
	return t.From.Add(t.To.Sub(t.From).Mul(v))
}

// PointLight is an omnidirectional light entity.
type PointLight struct {
	*Entity

	Intensity float32
	Track     LightTrack

	helper *Entity
	lit    []*Entity
}

// NewPointLight creates a light whose slider track runs across the front of the scene.
func NewPointLight(c color.RGBA, intensity float32) *PointLight {
	return &PointLight{
		Entity: &Entity{
			Name:  "light",
			Kind:  KindLight,
			Size:  0.05,
			Color: c,
		},
		Intensity: intensity,
		Track: LightTrack{
			From: mgl32.Vec3{-2, 2, -1},
			To:   mgl32.Vec3{2, 2, -1},
		},
	}
}

// SetPosition moves the light together with its helper and updates the
// light position parameter on every material shaded by it.
func (l *PointLight) SetPosition(p mgl32.Vec3) {
	l.Position = p
	if l.helper != nil {
		l.helper.Position = p
	}
	for _, e := range l.lit {
		e.Params.SetVec3(ParamLightPosition, p)
	}
}

// ApplySlider moves the light along its track.
func (l *PointLight) ApplySlider(_ string, v float32) {
	l.SetPosition(l.Track.At(v))
}

// NewLightHelper creates the small marker drawn at the light's position.
func NewLightHelper(l *PointLight, size float32, c color.RGBA) (*Entity, error) {
	if l == nil {
		return nil, missing("light helper", "light")
	}
	helper := &Entity{
		Name:     "lightHelper",
		Kind:     KindLightHelper,
		Position: l.Position,
		Size:     size,
		Color:    c,
	}
	l.helper = helper
	return helper, nil
}

func (l *PointLight) shade(e *Entity) {
	l.lit = append(l.lit, e)
}
