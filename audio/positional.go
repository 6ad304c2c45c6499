package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/vrscene/scene"
)

// Output mixes every emitter into one stream. Lock guards the state the
// audio device goroutine reads while streaming.
type Output struct {
	lock  sync.Locker
	mixer *beep.Mixer
}

// NewOutput creates an output whose mixer is guarded by lock. Pass a locker
// wrapping speaker.Lock when the mixer is played on the speaker.
func NewOutput(lock sync.Locker) *Output {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &Output{lock: lock, mixer: &beep.Mixer{}}
}

// Streamer is the mixed output to hand to the audio device.
func (o *Output) Streamer() beep.Streamer {
	return o.mixer
}

func (o *Output) add(s beep.Streamer) {
	o.lock.Lock()
	o.mixer.Add(s)
	o.lock.Unlock()
}

// Voices is the number of emitters currently mixed.
func (o *Output) Voices() int {
	o.lock.Lock()
	defer o.lock.Unlock()
	return o.mixer.Len()
}

// Listener is the ear of the scene, normally attached to the camera.
type Listener struct {
	parent *scene.Entity
}

// NewListener creates a listener at the origin until it is attached.
func NewListener() *Listener {
	return &Listener{}
}

// Attached implements scene.Attachment.
func (l *Listener) Attached(parent *scene.Entity) {
	l.parent = parent
}

// Position returns the world position of the entity carrying the listener.
func (l *Listener) Position() mgl32.Vec3 {
	if l.parent == nil {
		return mgl32.Vec3{}
	}
	return l.parent.Position
}

const (
	DefaultRefDistance = 1.0
	DefaultRolloff     = 1.0
)

// Positional is a looping sound source attached to an entity. Its gain
// follows the inverse distance model relative to a listener.
type Positional struct {
	output *Output
	parent *scene.Entity
	handle *Handle

	refDistance float64
	rolloff     float64

	ctrl    *beep.Ctrl
	volume  *effects.Volume
	gain    float64
	playing bool
}

// NewPositional creates a paused emitter mixed into output.
func NewPositional(output *Output) *Positional {
	return &Positional{
		output:      output,
		refDistance: DefaultRefDistance,
		rolloff:     DefaultRolloff,
		gain:        1,
	}
}

// Attached implements scene.Attachment.
func (p *Positional) Attached(parent *scene.Entity) {
	p.parent = parent
}

// Parent returns the entity the emitter is attached to.
func (p *Positional) Parent() *scene.Entity {
	return p.parent
}

// SetBuffer sets the sound to play. The handle may still be pending.
func (p *Positional) SetBuffer(h *Handle) {
	p.handle = h
}

// SetRefDistance sets the distance at which the gain is 1.
func (p *Positional) SetRefDistance(d float64) {
	if d > 0 {
		p.refDistance = d
	}
}

// SetRolloff sets how quickly the gain falls past the reference distance.
func (p *Positional) SetRolloff(r float64) {
	if r >= 0 {
		p.rolloff = r
	}
}

// RefDistance returns the reference distance.
func (p *Positional) RefDistance() float64 {
	return p.refDistance
}

// Playing reports whether the emitter is audible.
func (p *Positional) Playing() bool {
	return p.playing
}

// Ready reports whether the buffer finished loading.
func (p *Positional) Ready() bool {
	return p.handle != nil && p.handle.Buffer() != nil
}

// Play starts or resumes the loop. It is a no-op while no buffer is loaded.
func (p *Positional) Play() bool {
	if !p.Ready() {
		return false
	}
	if p.ctrl == nil {
		buf := p.handle.Buffer()
		p.ctrl = &beep.Ctrl{Streamer: beep.Loop(-1, buf.Streamer(0, buf.Len()))}
		p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
		p.applyGain()
		p.output.add(p.volume)
	}
	p.output.lock.Lock()
	p.ctrl.Paused = false
	p.output.lock.Unlock()
	p.playing = true
	return true
}

// Pause silences the emitter without losing its position in the track.
func (p *Positional) Pause() {
	if p.ctrl == nil {
		return
	}
	p.output.lock.Lock()
	p.ctrl.Paused = true
	p.output.lock.Unlock()
	p.playing = false
}

// Toggle flips between playing and paused and reports whether the emitter
// is playing afterwards.
func (p *Positional) Toggle() bool {
	if p.playing {
		p.Pause()
		return false
	}
	return p.Play()
}

// Gain is the last linear gain computed by Update.
func (p *Positional) Gain() float64 {
	return p.gain
}

// Update recomputes the gain for a listener at the given position.
func (p *Positional) Update(listener mgl32.Vec3) {
	if p.parent == nil {
		return
	}
	d := float64(p.parent.Position.Sub(listener).Len())
	p.gain = InverseDistanceGain(d, p.refDistance, p.rolloff)
	if p.volume != nil {
		p.output.lock.Lock()
		p.applyGain()
		p.output.lock.Unlock()
	}
}

func (p *Positional) applyGain() {
	if p.gain <= 0 {
		p.volume.Silent = true
		return
	}
	p.volume.Silent = false
	p.volume.Volume = math.Log2(p.gain)
}

// InverseDistanceGain is ref / (ref + rolloff * (max(d, ref) - ref)).
func InverseDistanceGain(d, ref, rolloff float64) float64 {
	if ref <= 0 {
		return 1
	}
	return ref / (ref + rolloff*(math.Max(d, ref)-ref))
}
