package render_test

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/anim"
	"github.com/plus3/vrscene/render"
	"github.com/plus3/vrscene/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	cam := scene.NewPerspectiveCamera(70, 1, 0.1, 100)
	e := scene.NewSphere(color.RGBA{A: 255})
	e.Size = 0.2
	e.MoveTo(0, 0, -2)

	s := render.Project(e, cam, 200, 200)
	require.True(t, s.Visible)
	assert.InDelta(t, 100, s.X, 1e-3)
	assert.InDelta(t, 100, s.Y, 1e-3)
	assert.Greater(t, s.Radius, float32(1))

	farther := *e
	farther.Position = mgl32.Vec3{0, 0, -4}
	assert.Less(t, render.Project(&farther, cam, 200, 200).Radius, s.Radius)

	behind := *e
	behind.Position = mgl32.Vec3{0, 0, 2}
	assert.False(t, render.Project(&behind, cam, 200, 200).Visible)
}

func TestShade(t *testing.T) {
	light := scene.NewPointLight(color.RGBA{R: 255, G: 255, B: 255, A: 255}, 1)
	cam := scene.NewPerspectiveCamera(70, 1, 0.1, 100)
	cube, err := scene.NewCube(light, cam)
	require.NoError(t, err)
	cube.Color = color.RGBA{R: 200, G: 100, B: 50, A: 255}

	assert.Equal(t, cube.Color, render.Shade(cube), "unit sliders keep the base color")

	cube.Params.SetFloat(scene.ParamRed, 0.5)
	cube.Params.SetFloat(scene.ParamBlue, 0)
	assert.Equal(t, color.RGBA{R: 100, G: 100, B: 0, A: 255}, render.Shade(cube))

	cube.Params.SetFloat(scene.ParamInvert, 1)
	assert.Equal(t, color.RGBA{R: 155, G: 155, B: 255, A: 255}, render.Shade(cube))

	plane := scene.NewPlane()
	assert.Equal(t, plane.Color, render.Shade(plane))
}

type fixedPose mgl32.Vec3

func (p fixedPose) Pose() (mgl32.Vec3, bool) {
	return mgl32.Vec3(p), true
}

func TestHost(t *testing.T) {
	var resized [][2]int
	host := render.NewHost(
		render.OnResize(func(w, h int) { resized = append(resized, [2]int{w, h}) }),
		render.WithPoseSource(fixedPose{0, 1.6, 0}),
	)

	w, h := host.Layout(800, 600)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, [][2]int{{800, 600}}, resized)

	host.SetSize(800, 600)
	host.Layout(800, 600)
	assert.Len(t, resized, 1, "unchanged layout does not resize")

	cam := scene.NewPerspectiveCamera(70, 1, 0.1, 100)
	host.UpdateXRCamera(cam)
	assert.Equal(t, mgl32.Vec3{0, 1.6, 0}, cam.Position)

	host.Render(scene.NewRegistry(), cam)
	assert.Equal(t, uint64(1), host.Frames())
}

func TestRecorderDrivesTheLoop(t *testing.T) {
	reg := scene.NewRegistry()
	e := scene.NewSphere(color.RGBA{A: 255})
	e.MoveTo(0, 0, -2)
	_, err := reg.AddEntity(e)
	require.NoError(t, err)
	hidden := scene.NewSphere(color.RGBA{A: 255})
	hidden.MoveTo(0, 0, 5)
	_, err = reg.AddEntity(hidden)
	require.NoError(t, err)

	cam := scene.NewPerspectiveCamera(70, 1, 0.1, 100)
	driver := anim.NewDriver(reg, cam, anim.WithClock(anim.NewManualClock(1.0/60)))
	rec := render.NewRecorder(320, 240)

	assert.Equal(t, 0, rec.Run(5), "nothing runs before the driver starts")

	require.NoError(t, driver.Start(rec))
	assert.Equal(t, 10, rec.Run(10))
	assert.Equal(t, 10, rec.Frames())
	assert.Equal(t, 1, rec.Visible())
	assert.Len(t, rec.Last(), 2)

	require.NoError(t, driver.Stop())
	assert.Equal(t, 0, rec.Run(3))
	assert.Equal(t, uint64(10), driver.Ticks())
}
