package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/vrscene/scene"
)

var background = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}

// Sprite is an entity flattened to window space.
type Sprite struct {
	X, Y    float32
	Radius  float32
	Depth   float32
	Visible bool
}

// Project maps an entity to window pixels for the given camera and window.
func Project(e *scene.Entity, cam *scene.Camera, width, height int) Sprite {
	center, ok := cam.ProjectToWindow(e.Position, width, height)
	if !ok {
		return Sprite{}
	}
	s := Sprite{X: center[0], Y: center[1], Depth: center[2], Visible: true}
	if e.Size > 0 {
		right := cam.View().Row(0).Vec3()
		if edge, ok := cam.ProjectToWindow(e.Position.Add(right.Mul(e.Size)), width, height); ok {
			s.Radius = mgl32.Vec2{edge[0] - center[0], edge[1] - center[1]}.Len()
		}
	}
	return s
}

// Shade returns the draw color of an entity after applying its material
// parameters, if it has any.
func Shade(e *scene.Entity) color.RGBA {
	c := e.Color
	if e.Params == nil {
		return c
	}
	scale := func(v uint8, param string) uint8 {
		f, ok := e.Params.Float(param)
		if !ok {
			return v
		}
		return uint8(mgl32.Clamp(float32(v)*f, 0, 255))
	}
	c.R = scale(c.R, scene.ParamRed)
	c.G = scale(c.G, scene.ParamGreen)
	c.B = scale(c.B, scene.ParamBlue)
	c.A = scale(c.A, scene.ParamAlpha)
	if inv, _ := e.Params.Float(scene.ParamInvert); inv > 0.5 {
		c.R, c.G, c.B = 255-c.R, 255-c.G, 255-c.B
	}
	// colors are premultiplied for ebiten
	c.R = uint8(uint16(c.R) * uint16(c.A) / 255)
	c.G = uint8(uint16(c.G) * uint16(c.A) / 255)
	c.B = uint8(uint16(c.B) * uint16(c.A) / 255)
	return c
}

// stripeCount is the number of stripes drawn across an entity.
func stripeCount(e *scene.Entity) int {
	if on, _ := e.Params.Float(scene.ParamStripes); on < 0.5 {
		return 0
	}
	f, _ := e.Params.Float(scene.ParamStripeFrequency)
	return 1 + int(f*8)
}

func drawScene(screen *ebiten.Image, reg *scene.Registry, cam *scene.Camera, width, height int) {
	screen.Fill(background)
	if reg == nil || cam == nil {
		return
	}
	for _, e := range reg.Iter() {
		if e.Kind == scene.KindPlane {
			drawPlane(screen, e, cam, width, height)
			continue
		}
		s := Project(e, cam, width, height)
		if !s.Visible || s.Radius <= 0 {
			continue
		}
		drawEntity(screen, e, s)
	}
}

func drawEntity(screen *ebiten.Image, e *scene.Entity, s Sprite) {
	c := Shade(e)
	r := s.Radius
	switch e.Kind {
	case scene.KindCube:
		vector.DrawFilledRect(screen, s.X-r, s.Y-r, 2*r, 2*r, c, true)
	case scene.KindSpeaker:
		vector.StrokeRect(screen, s.X-r, s.Y-r, 2*r, 2*r, 2, c, true)
		vector.DrawFilledCircle(screen, s.X, s.Y, r/2, c, true)
	case scene.KindTorusKnot:
		vector.StrokeCircle(screen, s.X, s.Y, r, r/3, c, true)
	case scene.KindCone:
		vector.StrokeLine(screen, s.X, s.Y-r, s.X+r, s.Y+r, 2, c, true)
		vector.StrokeLine(screen, s.X+r, s.Y+r, s.X-r, s.Y+r, 2, c, true)
		vector.StrokeLine(screen, s.X-r, s.Y+r, s.X, s.Y-r, 2, c, true)
		vector.DrawFilledCircle(screen, s.X, s.Y+r/3, r/2, c, true)
	default:
		vector.DrawFilledCircle(screen, s.X, s.Y, r, c, true)
	}

	if e.HasParam(scene.ParamStripes) {
		n := stripeCount(e)
		for i := 1; i <= n; i++ {
			y := s.Y - r + 2*r*float32(i)/float32(n+1)
			vector.StrokeLine(screen, s.X-r, y, s.X+r, y, 1, background, true)
		}
	}

	// spin indicator
	angle := float64(e.Rotation[2])
	dx, dy := float32(math.Cos(angle))*r, float32(math.Sin(angle))*r
	vector.StrokeLine(screen, s.X, s.Y, s.X+dx, s.Y+dy, 1, color.White, true)
}

func drawPlane(screen *ebiten.Image, e *scene.Entity, cam *scene.Camera, width, height int) {
	h := e.Size / 2
	corners := []mgl32.Vec3{
		e.Position.Add(mgl32.Vec3{-h, 0, -h}),
		e.Position.Add(mgl32.Vec3{h, 0, -h}),
		e.Position.Add(mgl32.Vec3{h, 0, h}),
		e.Position.Add(mgl32.Vec3{-h, 0, h}),
	}
	c := Shade(e)
	for i := range corners {
		a, okA := cam.ProjectToWindow(corners[i], width, height)
		b, okB := cam.ProjectToWindow(corners[(i+1)%len(corners)], width, height)
		if okA && okB {
			vector.StrokeLine(screen, a[0], a[1], b[0], b[1], 1, c, true)
		}
	}
}
