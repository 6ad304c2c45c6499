package session

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/interact"
)

// ScriptDemo schedules a short interaction sequence on a scripted tracker:
// a drag, two slider moves and a press of every button.
func ScriptDemo(s *Session, t *interact.ScriptedTracker) {
	press := func(b *interact.Button, at uint64) {
		t.At(at, func(tr *interact.ScriptedTracker) { tr.SetGesture(b.ID, true) })
		t.At(at+5, func(tr *interact.ScriptedTracker) { tr.SetGesture(b.ID, false) })
	}

	t.At(10, func(tr *interact.ScriptedTracker) {
		tr.Drag(s.Cube, mgl32.Vec3{0, 0.5, -1.5})
	})
	t.At(20, func(tr *interact.ScriptedTracker) {
		tr.SlideTo(s.Handles[0], 0.25)
	})
	press(s.Buttons.Stripes, 30)
	t.At(50, func(tr *interact.ScriptedTracker) {
		tr.SlideTo(s.Handles[len(s.Handles)-1], 1)
	})
	press(s.Buttons.Color, 60)
	press(s.Buttons.Invert, 70)
	press(s.Buttons.Audio, 80)
}
