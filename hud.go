package ui

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/Yeicor/fractal-ui/internal/coords"
	"github.com/Yeicor/fractal-ui/internal/pipeline"
	"github.com/Yeicor/fractal-ui/internal/state"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

const hudLineSpacing = 14

func (r *Renderer) drawUI(screen *ebiten.Image) {
	if !r.hudVisible {
		return
	}

	// Notify while a watched preset is being imported
	ctx, cancelFunc := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancelFunc()
	if r.importing.RTryLock(ctx) {
		r.importing.RUnlock()
	} else {
		drawTextWithShadow(screen, "Importing...", 5, 5, color.RGBA{R: 255, A: 255})
	}
	if status := r.currentStatus(); status != "" {
		drawTextWithShadow(screen, status, 5, 5+hudLineSpacing, color.RGBA{R: 255, G: 220, A: 255})
	}

	// Transform handles
	w, h := float64(r.snap.View.Width), float64(r.snap.View.Height)
	for _, t := range r.snap.Transforms {
		p := coords.NormToScreen(t.Pos.X, t.Pos.Y, w, h)
		c := color.RGBA{R: channel(t.Color[0]), G: channel(t.Color[1]), B: channel(t.Color[2]), A: 255}
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), handleRadius*0.6, c, true)
		outline := color.RGBA{A: 200}
		if t.ID == r.selectedID {
			outline = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		vector.StrokeCircle(screen, float32(p.X), float32(p.Y), handleRadius, 1.5, outline, true)
	}

	// State and controls
	msg := hudText(r.snap, r.pipe.Stats(), ebiten.ActualTPS())
	_, mh := text.Measure(msg, hudFace, hudLineSpacing)
	drawTextWithShadow(screen, msg, 5, h-mh-5, color.RGBA{G: 255, A: 255})
}

// hudText is the bottom-left overlay: current state followed by the key bindings.
func hudText(snap state.Snapshot, stats pipeline.Stats, tps float64) string {
	title := "Fractal 2D"
	if snap.Mode == state.Mode3D {
		title = "Fractal 3D (raymarched)"
	}
	return fmt.Sprintf(title+"\n==========\n"+
		"TPS: %0.2f, frames: %d\n"+
		"Quality: %s, %d iterations [Q]\n"+
		"Loop: %s, %.1fs [L]\n"+
		"Zoom: %.3g [MouseWheel], reset [R]\n"+
		"Transforms: %d [T] add, [Del] remove, drag handles\n"+
		"Pan [Alt+Drag], mode [M], HUD [H], capture [F12]\n"+
		"Copy/paste/save/open [Ctrl+C/V/S/O], +Shift for master",
		tps, stats.Frames,
		snap.Quality.Tier, pipeline.Iterations(snap.Quality.IterationsBase, snap.Quality.Tier),
		snap.Loop.Mode, snap.Loop.Period,
		snap.View.Zoom,
		len(snap.Transforms))
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func drawTextWithShadow(screen *ebiten.Image, msg string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.LineSpacing = hudLineSpacing
	op.GeoM.Translate(x+1, y+1)
	op.ColorScale.ScaleWithColor(color.Black)
	text.Draw(screen, msg, hudFace, op)

	op = &text.DrawOptions{}
	op.LineSpacing = hudLineSpacing
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, msg, hudFace, op)
}
