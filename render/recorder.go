package render

import (
	"github.com/plus3/vrscene/scene"
)

// Recorder is a windowless host. Run plays the role of the display,
// invoking the animation loop a fixed number of times.
type Recorder struct {
	loop func()

	width, height int
	frames        int
	last          []scene.EntitySnapshot
	visible       int
}

// NewRecorder creates a recorder with a virtual surface of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) SetAnimationLoop(loop func()) {
	r.loop = loop
}

func (r *Recorder) UpdateXRCamera(*scene.Camera) {}

// Render snapshots the scene and counts the entities in view.
func (r *Recorder) Render(reg *scene.Registry, cam *scene.Camera) {
	r.frames++
	r.last = reg.Snapshot()
	r.visible = 0
	for _, e := range reg.Iter() {
		if Project(e, cam, r.width, r.height).Visible {
			r.visible++
		}
	}
}

func (r *Recorder) SetSize(width, height int) {
	r.width, r.height = width, height
}

// Run delivers n refreshes. It stops early once the loop is removed and
// returns the number of refreshes delivered.
func (r *Recorder) Run(n int) int {
	for i := 0; i < n; i++ {
		if r.loop == nil {
			return i
		}
		r.loop()
	}
	return n
}

// Frames returns how many times Render was called.
func (r *Recorder) Frames() int {
	return r.frames
}

// Visible is the number of entities inside the view in the last frame.
func (r *Recorder) Visible() int {
	return r.visible
}

func (r *Recorder) Last() []scene.EntitySnapshot {
	return r.last
}
