// Package debugui draws Dear ImGui inspection windows over the scene.
package debugui

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// Overlay wraps the ebiten ImGui backend so it can be layered on a render.Host.
type Overlay struct {
	backend *ebitenbackend.EbitenBackend
}

// NewOverlay creates the ImGui context and backend window.
func NewOverlay(title string, width, height int) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &Overlay{backend: backend}
}

func (o *Overlay) BeginFrame() {
	o.backend.BeginFrame()
}

func (o *Overlay) EndFrame() {
	o.backend.EndFrame()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

func (o *Overlay) Layout(width, height int) {
	o.backend.Layout(width, height)
}
