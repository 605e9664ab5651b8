package pipeline

import (
	_ "embed"

	"github.com/Yeicor/fractal-ui/internal/state"
)

var (
	//go:embed shaders/fractal2d.kage
	fractal2DSource []byte
	//go:embed shaders/fractal3d.kage
	fractal3DSource []byte
	//go:embed shaders/master.kage
	masterSource []byte
)

func fractalSource(mode state.RenderMode) (string, []byte) {
	if mode == state.Mode3D {
		return "fractal3d", fractal3DSource
	}
	return "fractal2d", fractal2DSource
}
