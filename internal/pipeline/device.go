// Package pipeline renders a scene snapshot in two passes: the fractal pass draws into an offscreen target sized
// by the device pixel ratio, and the master pass composites that target onto the screen with post-processing.
package pipeline

// Image is a GPU render target. The screen is an Image too, but it is never owned by the pipeline.
type Image interface {
	Size() (w, h int)
}

// Program is a compiled fragment program.
type Program interface {
	Name() string
}

// Device is everything the passes need from the GPU.
type Device interface {
	CompileProgram(name string, src []byte) (Program, error)
	NewImage(w, h int) Image
	// DrawRect covers dst with p. The program samples nothing.
	DrawRect(dst Image, p Program, uniforms map[string]any)
	// DrawQuad covers dst with p sampling src, stretching src over dst when their sizes differ.
	DrawQuad(dst, src Image, p Program, uniforms map[string]any)
	ReleaseImage(img Image)
	ReleaseProgram(p Program)
}
