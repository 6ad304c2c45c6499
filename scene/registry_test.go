package scene_test

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmitter struct {
	parent *scene.Entity
}

func (f *fakeEmitter) Attached(parent *scene.Entity) {
	f.parent = parent
}

func newShaded(t *testing.T) (*scene.PointLight, *scene.Camera) {
	t.Helper()
	light := scene.NewPointLight(color.RGBA{R: 255, G: 255, B: 255, A: 255}, 1)
	light.SetPosition(mgl32.Vec3{0, 2, -1})
	camera := scene.NewPerspectiveCamera(70, 16.0/9.0, 0.1, 100)
	return light, camera
}

func TestRegistry(t *testing.T) {
	light, camera := newShaded(t)

	t.Run("add assigns ids in order", func(t *testing.T) {
		reg := scene.NewRegistry()
		cube, err := scene.NewCube(light, camera)
		require.NoError(t, err)
		plane := scene.NewPlane()

		cubeId, err := reg.AddEntity(cube)
		require.NoError(t, err)
		planeId, err := reg.AddEntity(plane)
		require.NoError(t, err)

		assert.Equal(t, cubeId, cube.ID)
		assert.NotEqual(t, cubeId, planeId)
		assert.Equal(t, 2, reg.Len())
		assert.Same(t, cube, reg.Get(cubeId))
		assert.True(t, reg.Contains(plane))

		var order []*scene.Entity
		for _, e := range reg.Iter() {
			order = append(order, e)
		}
		assert.Equal(t, []*scene.Entity{cube, plane}, order)
	})

	t.Run("rejects nil and duplicates", func(t *testing.T) {
		reg := scene.NewRegistry()
		_, err := reg.AddEntity(nil)
		assert.ErrorIs(t, err, scene.ErrNilEntity)

		sphere := scene.NewSphere(color.RGBA{A: 255})
		_, err = reg.AddEntity(sphere)
		require.NoError(t, err)
		_, err = reg.AddEntity(sphere)
		assert.ErrorIs(t, err, scene.ErrAlreadyAdded)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("attach requires a registered parent", func(t *testing.T) {
		reg := scene.NewRegistry()
		speaker, err := scene.NewSpeaker(light, camera)
		require.NoError(t, err)

		emitter := &fakeEmitter{}
		assert.ErrorIs(t, reg.Attach(42, emitter), scene.ErrParentMissing)
		assert.Nil(t, emitter.parent)

		id, err := reg.AddEntity(speaker)
		require.NoError(t, err)
		require.NoError(t, reg.Attach(id, emitter))
		assert.Same(t, speaker, emitter.parent)
		assert.Len(t, speaker.Attachments(), 1)
	})

	t.Run("stats", func(t *testing.T) {
		reg := scene.NewRegistry()
		cube, _ := scene.NewCube(light, camera)
		knot, _ := scene.NewTorusKnot(light, camera)
		for _, e := range []*scene.Entity{cube, knot, scene.NewPlane(), light.Entity} {
			_, err := reg.AddEntity(e)
			require.NoError(t, err)
		}
		require.NoError(t, reg.Attach(cube.ID, &fakeEmitter{}))

		stats := reg.CollectStats()
		assert.Equal(t, 4, stats.EntityCount)
		assert.Equal(t, 2, stats.ShadowCasters)
		assert.Equal(t, 2, stats.Parameterized)
		assert.Equal(t, 1, stats.Attachments)
		assert.Equal(t, 1, stats.ByKind[scene.KindPlane])
	})
}

func TestMoveEntity(t *testing.T) {
	light, camera := newShaded(t)

	t.Run("without positional parameter", func(t *testing.T) {
		reg := scene.NewRegistry()
		cube, err := scene.NewCube(light, camera)
		require.NoError(t, err)
		_, err = reg.AddEntity(cube)
		require.NoError(t, err)

		require.False(t, cube.HasParam(scene.ParamPositionOffset))
		assert.NotPanics(t, func() {
			assert.True(t, reg.MoveEntity(cube.ID, 0, 0, -2))
		})
		assert.Equal(t, mgl32.Vec3{0, 0, -2}, cube.Position)
	})

	t.Run("with positional parameter", func(t *testing.T) {
		reg := scene.NewRegistry()
		knot, err := scene.NewTorusKnot(light, camera)
		require.NoError(t, err)
		_, err = reg.AddEntity(knot)
		require.NoError(t, err)

		assert.True(t, reg.MoveEntity(knot.ID, -1, 0, -2))
		offset, ok := knot.Params.Vec3(scene.ParamPositionOffset)
		require.True(t, ok)
		assert.Equal(t, mgl32.Vec3{-1, 0, -2}, knot.Position)
		assert.Equal(t, knot.Position, offset)
	})

	t.Run("entity without material", func(t *testing.T) {
		plane := scene.NewPlane()
		assert.NotPanics(t, func() { plane.MoveTo(0, -1, -2) })
		assert.Equal(t, mgl32.Vec3{0, -1, -2}, plane.Position)
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.False(t, scene.NewRegistry().MoveEntity(7, 1, 2, 3))
	})
}

func TestRotateWraps(t *testing.T) {
	e := scene.NewSphere(color.RGBA{})
	for i := 0; i < 700; i++ {
		e.Rotate(0.01, 0.01, 0.01)
	}
	for axis := 0; axis < 3; axis++ {
		assert.InDelta(t, 7.0-2*3.14159265, e.Rotation[axis], 1e-3)
	}
}

func TestWrapAngle(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want float32
	}{
		{0, 0},
		{-0.5, float32(2*math.Pi - 0.5)},
		{2 * math.Pi, 0},
		{2*math.Pi - 1e-9, 0},
		{1000, float32(math.Mod(1000, 2*math.Pi))},
	} {
		got := scene.WrapAngle(tc.in)
		assert.InDelta(t, tc.want, got, 1e-6, "in=%v", tc.in)
		assert.Less(t, got, float32(2*math.Pi))
	}
}

func TestSnapshotCopiesParams(t *testing.T) {
	light, camera := newShaded(t)
	reg := scene.NewRegistry()
	cone, err := scene.NewCone(light, camera)
	require.NoError(t, err)
	_, err = reg.AddEntity(cone)
	require.NoError(t, err)
	cone.MoveTo(1, 0, -2)

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "cone", snap[0].Kind)
	assert.Equal(t, [3]float32{1, 0, -2}, snap[0].Vectors[scene.ParamPositionOffset])
	assert.Equal(t, float32(1), snap[0].Params[scene.ParamRed])

	cone.Params.SetFloat(scene.ParamRed, 0.25)
	assert.Equal(t, float32(1), snap[0].Params[scene.ParamRed])
}
