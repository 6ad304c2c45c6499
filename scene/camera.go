package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera. It embeds an Entity so listeners and other
// attachments can follow it, but it is never added to a Registry.
type Camera struct {
	Entity

	// Fov is the vertical field of view in degrees.
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32
	Target mgl32.Vec3
	Up     mgl32.Vec3

	projection mgl32.Mat4
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z.
func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	c := &Camera{
		Entity: Entity{Name: "camera", Kind: KindCamera},
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
	}
	c.UpdateProjection()
	return c
}

// SetAspect stores a new aspect ratio. Call UpdateProjection afterwards.
func (c *Camera) SetAspect(aspect float32) {
	c.Aspect = aspect
}

// UpdateProjection recomputes the projection matrix after Fov, Aspect, Near or Far changed.
func (c *Camera) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

// Projection returns the matrix computed by the last UpdateProjection.
func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

// ProjectToWindow maps a world point to window pixels with the origin at the
// top left. The returned Z is the window depth in [0, 1]; ok is false when
// the point lies outside the clip range.
func (c *Camera) ProjectToWindow(p mgl32.Vec3, width, height int) (win mgl32.Vec3, ok bool) {
	win = mgl32.Project(p, c.View(), c.projection, 0, 0, width, height)
	win[1] = float32(height) - win[1]
	return win, win[2] > 0 && win[2] < 1
}

// UnprojectFromWindow maps window pixels (top left origin) at the given
// window depth back to world space.
func (c *Camera) UnprojectFromWindow(x, y, depth float32, width, height int) (mgl32.Vec3, error) {
	win := mgl32.Vec3{x, float32(height) - y, depth}
	return mgl32.UnProject(win, c.View(), c.projection, 0, 0, width, height)
}
