// Package viewport keeps the camera projection and render surfaces in step
// with the window size.
package viewport

import "sync"

// Projector is a camera whose aspect ratio follows the viewport.
type Projector interface {
	SetAspect(aspect float32)
	UpdateProjection()
}

// Surface is anything sized in window pixels, such as the renderer's
// drawing target or a pointer tracker.
type Surface interface {
	SetSize(width, height int)
}

// Binding propagates window resizes to a camera and a set of surfaces.
type Binding struct {
	mu       sync.Mutex
	camera   Projector
	surfaces []Surface
	width    int
	height   int
}

// New creates a binding. Nothing is sized until the first Resize.
func New(camera Projector, surfaces ...Surface) *Binding {
	return &Binding{camera: camera, surfaces: surfaces}
}

// AddSurface registers another surface. It is sized immediately when the
// binding already knows the window size.
func (b *Binding) AddSurface(s Surface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.surfaces = append(b.surfaces, s)
	if b.width > 0 {
		s.SetSize(b.width, b.height)
	}
}

// Resize applies a new window size. Repeated calls with the same size and
// non-positive sizes are ignored; it reports whether anything changed.
func (b *Binding) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if width == b.width && height == b.height {
		return false
	}
	b.width, b.height = width, height

	if b.camera != nil {
		b.camera.SetAspect(float32(width) / float32(height))
		b.camera.UpdateProjection()
	}
	for _, s := range b.surfaces {
		s.SetSize(width, height)
	}
	return true
}

// Size returns the last applied window size.
func (b *Binding) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}
