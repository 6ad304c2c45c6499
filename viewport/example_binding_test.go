package viewport_test

import (
	"fmt"

	"github.com/plus3/vrscene/scene"
	"github.com/plus3/vrscene/viewport"
)

type namedSurface string

func (s namedSurface) SetSize(width, height int) {
	fmt.Printf("%s sized %dx%d\n", s, width, height)
}

// ExampleBinding_Resize keeps a camera and its surfaces in step with the
// window. Repeating the current size or reporting a minimized window does
// nothing.
func ExampleBinding_Resize() {
	camera := scene.NewPerspectiveCamera(70, 1, 0.1, 100)
	binding := viewport.New(camera, namedSurface("renderer"))

	fmt.Println(binding.Resize(1280, 720))
	fmt.Printf("aspect %.3f\n", camera.Aspect)

	binding.AddSurface(namedSurface("pointer"))
	fmt.Println(binding.Resize(1280, 720))
	fmt.Println(binding.Resize(0, 0))

	w, h := binding.Size()
	fmt.Println(w, h)

	// Output:
	// renderer sized 1280x720
	// true
	// aspect 1.778
	// pointer sized 1280x720
	// false
	// false
	// 1280 720
}
