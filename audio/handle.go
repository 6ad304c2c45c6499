package audio

import (
	"context"
	"sync/atomic"

	"github.com/faiface/beep"
)

// State is the progress of an asynchronous load.
type State int32

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Handle is the future result of an asynchronous load. The loading goroutine
// resolves it exactly once; the tick thread only polls State and Buffer.
type Handle struct {
	Path string

	state  atomic.Int32
	done   chan struct{}
	buffer *beep.Buffer
	err    error
}

func newHandle(path string) *Handle {
	return &Handle{Path: path, done: make(chan struct{})}
}

// Resolved returns a handle that is already ready with buf.
func Resolved(buf *beep.Buffer) *Handle {
	h := newHandle("")
	h.resolve(buf, nil)
	return h
}

func (h *Handle) resolve(buf *beep.Buffer, err error) {
	if err != nil {
		h.err = err
		h.state.Store(int32(Failed))
	} else {
		h.buffer = buf
		h.state.Store(int32(Ready))
	}
	close(h.done)
}

// State returns the current load state.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Done is closed once the load finished, successfully or not.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Buffer returns the decoded samples, or nil while pending or after a failure.
func (h *Handle) Buffer() *beep.Buffer {
	if h.State() != Ready {
		return nil
	}
	return h.buffer
}

// Err returns the load error once the handle failed.
func (h *Handle) Err() error {
	if h.State() != Failed {
		return nil
	}
	return h.err
}

// Wait blocks until the load finished or ctx is done.
func (h *Handle) Wait(ctx context.Context) (*beep.Buffer, error) {
	select {
	case <-h.done:
		return h.Buffer(), h.Err()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
