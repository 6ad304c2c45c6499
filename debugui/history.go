package debugui

// FrameHistory is a fixed ring of frame times in milliseconds.
type FrameHistory struct {
	samples []float32
	index   int
	filled  int
}

// NewFrameHistory creates a ring holding the last frames samples.
func NewFrameHistory(frames int) *FrameHistory {
	if frames < 1 {
		frames = 1
	}
	return &FrameHistory{samples: make([]float32, frames)}
}

// Push records a frame time in milliseconds, dropping the oldest when full.
func (h *FrameHistory) Push(ms float32) {
	h.samples[h.index] = ms
	h.index = (h.index + 1) % len(h.samples)
	if h.filled < len(h.samples) {
		h.filled++
	}
}

// Average is the mean over the recorded samples.
func (h *FrameHistory) Average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, s := range h.samples[:h.filled] {
		sum += s
	}
	return sum / float32(h.filled)
}

// Samples returns the backing ring, oldest sample not necessarily first.
func (h *FrameHistory) Samples() []float32 {
	return h.samples
}
