package anim

import "github.com/plus3/vrscene/scene"

// System is one step of the per-tick update. Systems run in registration
// order, before the scene is rendered.
type System interface {
	Execute(frame *Frame)
}

// SystemFunc adapts a function to System.
type SystemFunc func(frame *Frame)

func (f SystemFunc) Execute(frame *Frame) {
	f(frame)
}

// Frame carries the timing of the current tick.
type Frame struct {
	Tick      uint64
	DeltaTime float64
	Elapsed   float64
	Scene     *scene.Registry
	Camera    *scene.Camera
	Commands  *Commands
}

// Commands buffers work that must run after every system of the tick has
// executed and before the scene is rendered.
type Commands struct {
	defers []func()
}

// Defer queues fn for the end of the update phase.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued functions.
func (c *Commands) Len() int {
	return len(c.defers)
}

// flush runs the queued functions in order, including any they queue.
func (c *Commands) flush() {
	for i := 0; i < len(c.defers); i++ {
		c.defers[i]()
	}
	clear(c.defers)
	c.defers = c.defers[:0]
}
