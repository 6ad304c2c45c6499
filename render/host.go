// Package render draws a scene registry with ebiten and drives the
// animation loop at the display refresh rate.
package render

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/vrscene/scene"
)

// Overlay is drawn on top of the scene, such as the imgui debug windows.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}

// PoseSource supplies the head pose when an XR session drives the camera.
type PoseSource interface {
	Pose() (position mgl32.Vec3, ok bool)
}

// Host implements ebiten.Game. The animation loop installed through
// SetAnimationLoop runs once per Update; since the game is run with
// SyncWithFPS that is once per display refresh.
type Host struct {
	mu   sync.Mutex
	loop func()
	quit bool

	reg *scene.Registry
	cam *scene.Camera

	width, height int
	onResize      func(width, height int)

	overlay Overlay
	poses   PoseSource
	frames  uint64
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithOverlay draws o on top of the scene.
func WithOverlay(o Overlay) HostOption {
	return func(h *Host) { h.overlay = o }
}

// WithPoseSource lets p override the camera pose every tick.
func WithPoseSource(p PoseSource) HostOption {
	return func(h *Host) { h.poses = p }
}

// OnResize registers the handler called when the window size changes.
func OnResize(fn func(width, height int)) HostOption {
	return func(h *Host) { h.onResize = fn }
}

// NewHost creates a host. Run it with ebiten.RunGame.
func NewHost(opts ...HostOption) *Host {
	h := &Host{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetAnimationLoop installs the per-refresh callback; nil removes it.
func (h *Host) SetAnimationLoop(loop func()) {
	h.mu.Lock()
	h.loop = loop
	h.mu.Unlock()
}

// UpdateXRCamera moves the camera to the tracked head pose, if any.
func (h *Host) UpdateXRCamera(cam *scene.Camera) {
	if h.poses == nil {
		return
	}
	if p, ok := h.poses.Pose(); ok {
		cam.Position = p
	}
}

// Render records what the next Draw shows.
func (h *Host) Render(reg *scene.Registry, cam *scene.Camera) {
	h.reg = reg
	h.cam = cam
	h.frames++
}

func (h *Host) SetSize(width, height int) {
	h.width, h.height = width, height
}

// Frames returns the number of rendered frames.
func (h *Host) Frames() uint64 {
	return h.frames
}

// Terminate ends the game at the next Update.
func (h *Host) Terminate() {
	h.mu.Lock()
	h.quit = true
	h.mu.Unlock()
}

func (h *Host) Update() error {
	h.mu.Lock()
	loop, quit := h.loop, h.quit
	h.mu.Unlock()

	if quit || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if h.overlay != nil {
		h.overlay.BeginFrame()
	}
	if loop != nil {
		loop()
	}
	if h.overlay != nil {
		h.overlay.EndFrame()
	}
	return nil
}

func (h *Host) Draw(screen *ebiten.Image) {
	drawScene(screen, h.reg, h.cam, h.width, h.height)
	if h.overlay != nil {
		h.overlay.Draw(screen)
	}
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != h.width || outsideHeight != h.height {
		if h.onResize != nil {
			h.onResize(outsideWidth, outsideHeight)
		} else {
			h.SetSize(outsideWidth, outsideHeight)
		}
	}
	if h.overlay != nil {
		h.overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
