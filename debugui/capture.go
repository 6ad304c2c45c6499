package debugui

import "github.com/plus3/vrscene/interact"

// UIState reports which inputs ImGui claimed on the last frame.
type UIState interface {
	WantCaptureMouse() bool
	WantCaptureKeyboard() bool
}

// CaptureFilter hides input from a pointer tracker while ImGui owns it:
// mouse presses while a window is hovered or dragged, gesture keys while a
// text field has focus.
type CaptureFilter struct {
	interact.PointerInput
	UI UIState
}

func (f CaptureFilter) Pressed() bool {
	if f.UI != nil && f.UI.WantCaptureMouse() {
		return false
	}
	return f.PointerInput.Pressed()
}

func (f CaptureFilter) KeyPressed(id interact.ButtonId) bool {
	if f.UI != nil && f.UI.WantCaptureKeyboard() {
		return false
	}
	return f.PointerInput.KeyPressed(id)
}
