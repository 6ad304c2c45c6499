package interact

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/vrscene/scene"
)

// PointerInput is the raw desktop input a PointerTracker reads each tick.
type PointerInput interface {
	CursorPosition() (x, y int)
	Pressed() bool
	// KeyPressed reports whether the key bound to button id is held.
	KeyPressed(id ButtonId) bool
}

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1,
	ebiten.KeyDigit2,
	ebiten.KeyDigit3,
	ebiten.KeyDigit4,
	ebiten.KeyDigit5,
	ebiten.KeyDigit6,
	ebiten.KeyDigit7,
	ebiten.KeyDigit8,
	ebiten.KeyDigit9,
}

// EbitenInput reads the mouse and the digit row. Button 1 is bound to the
// key 1, and so on up to 9.
type EbitenInput struct{}

func (EbitenInput) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

func (EbitenInput) Pressed() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

func (EbitenInput) KeyPressed(id ButtonId) bool {
	if id == 0 || int(id) > len(digitKeys) {
		return false
	}
	return ebiten.IsKeyPressed(digitKeys[id-1])
}

// DefaultPickRadius is the pick tolerance in pixels added to an entity's
// projected radius.
const DefaultPickRadius = 6

type grab struct {
	entity  *scene.Entity
	control *Control
	depth   float32
	offset  mgl32.Vec3
}

// PointerTracker emulates hand tracking with a mouse: pressing over an
// entity grabs it, moving drags it in the view plane, releasing drops it.
type PointerTracker struct {
	input  PointerInput
	camera *scene.Camera

	width, height int
	pickRadius    float32

	draggables []*scene.Entity
	controls   []Control
	buttons    map[ButtonId]bool

	pressed bool
	grabbed *grab
}

// NewPointerTracker creates a tracker reading input. The camera may be set later with SetCamera.
func NewPointerTracker(input PointerInput, camera *scene.Camera) *PointerTracker {
	return &PointerTracker{
		input:      input,
		camera:     camera,
		width:      1,
		height:     1,
		pickRadius: DefaultPickRadius,
		buttons:    make(map[ButtonId]bool),
	}
}

// SetSize tells the tracker the window size used for picking.
func (t *PointerTracker) SetSize(width, height int) {
	t.width, t.height = width, height
}

// SetCamera sets the camera used to pick and drag. The tracker ignores the
// pointer until it has one.
func (t *PointerTracker) SetCamera(cam *scene.Camera) {
	t.camera = cam
}

// SetPickRadius sets the minimum pick radius in pixels.
func (t *PointerTracker) SetPickRadius(px float32) {
	t.pickRadius = px
}

func (t *PointerTracker) RegisterDraggable(e *scene.Entity) {
	t.draggables = append(t.draggables, e)
}

func (t *PointerTracker) RegisterControl(c Control) {
	t.controls = append(t.controls, c)
}

func (t *PointerTracker) RegisterButton(id ButtonId, _ string) {
	t.buttons[id] = true
}

func (t *PointerTracker) Gesture(id ButtonId) bool {
	return t.buttons[id] && t.input.KeyPressed(id)
}

// Grabbed returns the entity currently held, or nil.
func (t *PointerTracker) Grabbed() *scene.Entity {
	if t.grabbed == nil {
		return nil
	}
	return t.grabbed.entity
}

// Execute grabs the nearest entity under the cursor on press, drags it while held and releases it on release.
func (t *PointerTracker) Execute(dt, elapsed float64) {
	if t.camera == nil {
		return
	}
	pressed := t.input.Pressed()
	x, y := t.input.CursorPosition()
	cursor := mgl32.Vec2{float32(x), float32(y)}

	switch {
	case pressed && !t.pressed:
		t.grabbed = t.pick(cursor)
	case !pressed:
		t.grabbed = nil
	}
	t.pressed = pressed

	if t.grabbed != nil {
		t.drag(cursor)
	}
}

// pick returns the nearest entity under the cursor. Slider handles win over
// draggables at equal depth since they are registered as controls.
func (t *PointerTracker) pick(cursor mgl32.Vec2) *grab {
	var best *grab
	consider := func(e *scene.Entity, c *Control) {
		win, ok := t.camera.ProjectToWindow(e.Position, t.width, t.height)
		if !ok {
			return
		}
		dist := mgl32.Vec2{win[0], win[1]}.Sub(cursor).Len()
		if dist > t.radiusOf(e)+t.pickRadius {
			return
		}
		if best != nil && best.depth <= win[2] {
			return
		}
		best = &grab{entity: e, control: c, depth: win[2]}
	}
	for i := range t.controls {
		consider(t.controls[i].Entity, &t.controls[i])
	}
	for _, e := range t.draggables {
		consider(e, nil)
	}
	if best == nil {
		return nil
	}
	hit, err := t.camera.UnprojectFromWindow(cursor[0], cursor[1], best.depth, t.width, t.height)
	if err == nil {
		best.offset = best.entity.Position.Sub(hit)
	}
	return best
}

// radiusOf estimates the on-screen radius of e in pixels.
func (t *PointerTracker) radiusOf(e *scene.Entity) float32 {
	if e.Size <= 0 {
		return 0
	}
	right := t.camera.View().Row(0).Vec3()
	edge, ok := t.camera.ProjectToWindow(e.Position.Add(right.Mul(e.Size)), t.width, t.height)
	if !ok {
		return 0
	}
	center, _ := t.camera.ProjectToWindow(e.Position, t.width, t.height)
	return mgl32.Vec2{edge[0], edge[1]}.Sub(mgl32.Vec2{center[0], center[1]}).Len()
}

func (t *PointerTracker) drag(cursor mgl32.Vec2) {
	hit, err := t.camera.UnprojectFromWindow(cursor[0], cursor[1], t.grabbed.depth, t.width, t.height)
	if err != nil {
		return
	}
	p := hit.Add(t.grabbed.offset)
	if t.grabbed.control != nil {
		p = t.grabbed.control.Clamp(p)
	}
	t.grabbed.entity.MoveTo(p[0], p[1], p[2])
}
