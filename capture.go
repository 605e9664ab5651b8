package ui

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/hajimehoshi/ebiten/v2"
)

type captureRequest struct {
	img  *image.RGBA
	path string
}

// startCaptureWorker encodes captured frames off the game loop until ctx ends.
func (r *Renderer) startCaptureWorker(ctx context.Context) {
	r.captureQueue = make(chan captureRequest, 2)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case req := <-r.captureQueue:
				if err := writeCapture(req.path, req.img); err != nil {
					logger().Warn("capture failed", "err", err)
					r.setStatus(err.Error())
					continue
				}
				logger().Info("frame captured", "path", req.path)
				r.setStatus("Captured " + req.path)
			}
		}
	}()
}

// requestCapture makes the next Draw capture the presented frame.
func (r *Renderer) requestCapture() { r.captureNext = true }

// maybeCapture copies the presented frame (before the HUD is drawn) and queues it for encoding.
func (r *Renderer) maybeCapture(screen *ebiten.Image) {
	if !r.captureNext || r.captureQueue == nil {
		return
	}
	r.captureNext = false
	img := image.NewRGBA(screen.Bounds())
	screen.ReadPixels(img.Pix)
	path := filepath.Join(r.captureDir, captureName(time.Now()))
	select {
	case r.captureQueue <- captureRequest{img: img, path: path}:
	default:
		r.setStatus("Capture skipped: encoder busy")
	}
}

func captureName(t time.Time) string {
	return "fractal-" + t.Format("20060102-150405.000") + ".webp"
}

func writeCapture(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	if err = encodeCapture(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("capture %s: %w", path, err)
	}
	return f.Close()
}

// encodeCapture writes img as lossless WebP.
func encodeCapture(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}
