package audio

import (
	"github.com/plus3/vrscene/anim"
	"github.com/plus3/vrscene/logging"
	"go.uber.org/zap"
)

// System updates emitter gains from the listener position every tick.
type System struct {
	listener *Listener
	emitters []*Positional
	log      *zap.Logger
	ready    map[*Handle]State
}

// NewSystem creates the system updating emitter gains against listener.
func NewSystem(listener *Listener, log *zap.Logger, emitters ...*Positional) *System {
	return &System{
		listener: listener,
		emitters: emitters,
		log:      logging.OrNop(log),
		ready:    make(map[*Handle]State),
	}
}

func (s *System) Execute(frame *anim.Frame) {
	at := s.listener.Position()
	for _, e := range s.emitters {
		e.Update(at)
		s.observe(e.handle)
	}
}

func (s *System) observe(h *Handle) {
	if h == nil {
		return
	}
	state := h.State()
	if s.ready[h] == state {
		return
	}
	s.ready[h] = state
	switch state {
	case Ready:
		s.log.Debug("Audio ready", zap.String("path", h.Path))
	case Failed:
		s.log.Debug("Audio unavailable", zap.String("path", h.Path), zap.Error(h.Err()))
	}
}
