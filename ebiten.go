package ui

import (
	"context"
	"time"

	"github.com/Yeicor/fractal-ui/internal/pipeline"
	"github.com/Yeicor/fractal-ui/internal/state"
	"github.com/hajimehoshi/ebiten/v2"
)

// rendererEbitenGame hides the private ebiten implementation while behaving like a *Renderer internally
type rendererEbitenGame struct {
	*Renderer
}

func (r rendererEbitenGame) Update() error {
	if r.ctx.Err() != nil { // Signal received
		return ebiten.Termination
	}
	r.handleInput(pollInput())
	return nil
}

func (r rendererEbitenGame) Draw(screen *ebiten.Image) {
	r.frame(pipeline.EbitenImage{Img: screen})
	r.maybeCapture(screen)
	r.drawUI(screen)
}

func (r rendererEbitenGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	dpr := 1.0
	if m := ebiten.Monitor(); m != nil {
		dpr = m.DeviceScaleFactor()
	}
	r.pushLayout(outsideWidth, outsideHeight, dpr)
	return outsideWidth, outsideHeight // Logical pixels; the offscreen target carries the device resolution
}

// pushLayout stores the window size and pixel ratio unless a writer holds the store. Layout runs every tick, so a
// skipped push is retried on the next one.
func (r *Renderer) pushLayout(w, h int, dpr float64) bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	return r.store.TryBatch(ctx, func(tx *state.Tx) {
		tx.SetSize(w, h)
		tx.SetDPR(dpr)
	})
}
