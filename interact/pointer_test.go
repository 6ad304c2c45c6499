package interact

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInput struct {
	x, y    int
	pressed bool
	keys    map[ButtonId]bool
}

func (f *fakeInput) CursorPosition() (int, int) { return f.x, f.y }
func (f *fakeInput) Pressed() bool              { return f.pressed }
func (f *fakeInput) KeyPressed(id ButtonId) bool {
	return f.keys[id]
}

func newPointer(t *testing.T) (*PointerTracker, *fakeInput, *scene.Entity) {
	t.Helper()
	camera := scene.NewPerspectiveCamera(70, 1, 0.1, 100)
	input := &fakeInput{keys: map[ButtonId]bool{}}
	tracker := NewPointerTracker(input, camera)
	tracker.SetSize(200, 200)

	e := scene.NewSphere(color.RGBA{A: 255})
	e.Size = 0.2
	e.MoveTo(0, 0, -2)
	tracker.RegisterDraggable(e)
	return tracker, input, e
}

func TestPointerTracker(t *testing.T) {
	t.Run("grab drag release", func(t *testing.T) {
		tracker, input, e := newPointer(t)

		input.x, input.y = 100, 100
		tracker.Execute(0, 0)
		assert.Nil(t, tracker.Grabbed(), "hover alone does not grab")

		input.pressed = true
		tracker.Execute(0, 0)
		require.Same(t, e, tracker.Grabbed())

		input.x = 140
		tracker.Execute(0, 0)
		assert.Greater(t, e.Position.X(), float32(0.1))
		assert.InDelta(t, 0, e.Position.Y(), 1e-3)
		assert.InDelta(t, -2, e.Position.Z(), 1e-2)

		input.pressed = false
		tracker.Execute(0, 0)
		assert.Nil(t, tracker.Grabbed())

		moved := e.Position
		input.x = 20
		tracker.Execute(0, 0)
		assert.Equal(t, moved, e.Position)
	})

	t.Run("press away from entities grabs nothing", func(t *testing.T) {
		tracker, input, _ := newPointer(t)
		input.x, input.y, input.pressed = 5, 5, true
		tracker.Execute(0, 0)
		assert.Nil(t, tracker.Grabbed())

		// sliding onto the entity while held does not grab it
		input.x, input.y = 100, 100
		tracker.Execute(0, 0)
		assert.Nil(t, tracker.Grabbed())
	})

	t.Run("controls are constrained", func(t *testing.T) {
		tracker, input, _ := newPointer(t)
		handle := scene.NewSphere(color.RGBA{A: 255})
		handle.Size = 0.1
		handle.MoveTo(0, 0, -1)
		control := Control{Entity: handle, Axis: AxisX, Min: -0.1, Max: 0.1}
		tracker.RegisterControl(control)

		input.x, input.y, input.pressed = 100, 100, true
		tracker.Execute(0, 0)
		require.Same(t, handle, tracker.Grabbed(), "nearer entity wins")

		input.x, input.y = 190, 20
		tracker.Execute(0, 0)
		assert.Equal(t, mgl32.Vec3{0.1, 0, -1}, handle.Position)
	})

	t.Run("gestures follow keys of registered buttons", func(t *testing.T) {
		tracker, input, _ := newPointer(t)
		tracker.RegisterButton(1, "stripes")
		input.keys[1] = true
		input.keys[2] = true

		assert.True(t, tracker.Gesture(1))
		assert.False(t, tracker.Gesture(2))
	})
}

func TestEbitenInputKeyRange(t *testing.T) {
	var in EbitenInput
	assert.False(t, in.KeyPressed(0))
	assert.False(t, in.KeyPressed(10))
}
