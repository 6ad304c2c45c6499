package scene

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrMissingDependency is returned by factories when a shading dependency is nil.
var ErrMissingDependency = errors.New("missing dependency")

func missing(what, dep string) error {
	return fmt.Errorf("%s: %w: %s", what, ErrMissingDependency, dep)
}

// SliderParams are the float slots every shaded primitive exposes to sliders.
var SliderParams = []string{
	ParamRed,
	ParamGreen,
	ParamBlue,
	ParamAlpha,
	ParamStripeFrequency,
	ParamLightPos,
}

// Palette is the color list cycled by the color button.
var Palette = []color.RGBA{
	{R: 0xff, G: 0x63, B: 0x47, A: 0xff},
	{R: 0x46, G: 0x82, B: 0xb4, A: 0xff},
	{R: 0x9a, G: 0xcd, B: 0x32, A: 0xff},
	{R: 0xff, G: 0xd7, B: 0x00, A: 0xff},
	{R: 0xba, G: 0x55, B: 0xd3, A: 0xff},
}

// stripesMaterial declares the slots of the striped shader shared by the
// primitive meshes. Meshes placed through positionOffset declare it as well.
func stripesMaterial(light *PointLight, camera *Camera, offset bool) *Uniforms {
	u := NewUniforms().
		DeclareVec3(ParamLightPosition, light.Position).
		DeclareVec3(ParamCameraPosition, camera.Position).
		DeclareFloat(ParamRed, 1).
		DeclareFloat(ParamGreen, 1).
		DeclareFloat(ParamBlue, 1).
		DeclareFloat(ParamAlpha, 1).
		DeclareFloat(ParamStripeFrequency, 0.5).
		DeclareFloat(ParamLightPos, 0.5).
		DeclareFloat(ParamStripes, 1).
		DeclareFloat(ParamInvert, 0).
		DeclareFloat(ParamColorIndex, 0)
	if offset {
		u.DeclareVec3(ParamPositionOffset, mgl32.Vec3{})
	}
	return u
}

func shaded(kind Kind, name string, size float32, light *PointLight, camera *Camera, offset bool) (*Entity, error) {
	if light == nil {
		return nil, missing(name, "light")
	}
	if camera == nil {
		return nil, missing(name, "camera")
	}
	e := &Entity{
		Name:   name,
		Kind:   kind,
		Size:   size,
		Color:  Palette[0],
		Shadow: Shadow{Cast: true},
		Params: stripesMaterial(light, camera, offset),
	}
	light.shade(e)
	return e, nil
}

// NewCube creates the cube mesh. Its material has no positionOffset slot.
func NewCube(light *PointLight, camera *Camera) (*Entity, error) {
	return shaded(KindCube, "cube", 0.2, light, camera, false)
}

// NewCone creates the cone mesh. It is placed through positionOffset.
func NewCone(light *PointLight, camera *Camera) (*Entity, error) {
	return shaded(KindCone, "cone", 0.2, light, camera, true)
}

// NewTorusKnot creates the torus knot mesh. It is placed through positionOffset.
func NewTorusKnot(light *PointLight, camera *Camera) (*Entity, error) {
	return shaded(KindTorusKnot, "torusKnot", 0.25, light, camera, true)
}

// NewSpeaker creates a speaker box. Speakers carry only the lighting and
// placement slots, not the slider ones.
func NewSpeaker(light *PointLight, camera *Camera) (*Entity, error) {
	if light == nil {
		return nil, missing("speaker", "light")
	}
	if camera == nil {
		return nil, missing("speaker", "camera")
	}
	e := &Entity{
		Name:  "speaker",
		Kind:  KindSpeaker,
		Size:  0.3,
		Color: color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff},
		Params: NewUniforms().
			DeclareVec3(ParamLightPosition, light.Position).
			DeclareVec3(ParamCameraPosition, camera.Position).
			DeclareVec3(ParamPositionOffset, mgl32.Vec3{}),
	}
	light.shade(e)
	return e, nil
}

// NewPlane creates the unshaded floor plane.
func NewPlane() *Entity {
	return &Entity{
		Name:   "plane",
		Kind:   KindPlane,
		Size:   5,
		Color:  color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
		Shadow: Shadow{Receive: true},
	}
}

// NewSphere creates an unshaded sphere, used for slider handles.
func NewSphere(c color.RGBA) *Entity {
	return &Entity{
		Name:  "sphere",
		Kind:  KindSphere,
		Size:  0.04,
		Color: c,
	}
}
