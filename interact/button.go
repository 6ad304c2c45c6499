package interact

import "github.com/plus3/vrscene/scene"

// Playable is an audio source the audio toggle button can start and pause.
type Playable interface {
	Toggle() bool
}

// Button fires its action once per rising edge of its gesture.
type Button struct {
	ID    ButtonId
	Label string

	action func()
	active bool
	fired  uint64
}

// Fired returns how many times the action ran.
func (b *Button) Fired() uint64 {
	return b.fired
}

// Active reports whether the gesture was held during the last update.
func (b *Button) Active() bool {
	return b.active
}

// observe feeds the gesture state of one tick and reports whether the action fired.
func (b *Button) observe(active bool) bool {
	edge := active && !b.active
	b.active = active
	if edge {
		b.fired++
		b.action()
	}
	return edge
}

func flipParam(targets []*scene.Entity, param string) {
	for _, t := range targets {
		v, _ := t.Params.Float(param)
		if v > 0.5 {
			t.Params.SetFloat(param, 0)
		} else {
			t.Params.SetFloat(param, 1)
		}
	}
}

func cycleColor(targets []*scene.Entity) {
	for _, t := range targets {
		v, _ := t.Params.Float(scene.ParamColorIndex)
		idx := (int(v) + 1) % len(scene.Palette)
		t.Params.SetFloat(scene.ParamColorIndex, float32(idx))
		t.Color = scene.Palette[idx]
	}
}
