package ui

import (
	"github.com/Yeicor/fractal-ui/internal/loop"
	"github.com/Yeicor/fractal-ui/internal/pipeline"
	"github.com/Yeicor/fractal-ui/internal/state"
)

// Option configures a Renderer.
type Option func(r *Renderer)

// OptMWindowSize sets the initial window size.
func OptMWindowSize(w, h int) Option {
	return func(r *Renderer) {
		r.initial.View.Width, r.initial.View.Height = w, h
	}
}

// OptMTitle sets the window title.
func OptMTitle(title string) Option {
	return func(r *Renderer) { r.title = title }
}

// OptMTPS sets the update rate.
func OptMTPS(tps int) Option {
	return func(r *Renderer) {
		if tps > 0 {
			r.tps = tps
		}
	}
}

// OptMIterations sets the iteration count at 100% quality.
func OptMIterations(base int) Option {
	return func(r *Renderer) { r.initial.Quality.IterationsBase = base }
}

// OptMQuality sets the initial quality tier ("20%" to "2000%").
func OptMQuality(tier string) Option {
	return func(r *Renderer) { r.initial.Quality.Tier = tier }
}

// OptMRenderMode sets the initial render mode ("2d" or "3d"). Unknown names are ignored.
func OptMRenderMode(mode string) Option {
	return func(r *Renderer) {
		if m, ok := state.ParseRenderMode(mode); ok {
			r.initial.Mode = m
		}
	}
}

// OptMLoopMode sets the initial loop mode ("linear", "pingpong", "ease" or "wavy"). Unknown names are ignored.
func OptMLoopMode(mode string) Option {
	return func(r *Renderer) {
		if m, ok := loop.ParseMode(mode); ok {
			r.initial.Loop.Mode = m
		}
	}
}

// OptMWatchFiles reloads the given preset files whenever they change.
func OptMWatchFiles(paths []string) Option {
	return func(r *Renderer) { r.watchFiles = paths }
}

// OptMPresetDir sets where preset files are saved and loaded by the keyboard shortcuts.
func OptMPresetDir(dir string) Option {
	return func(r *Renderer) { r.presetDir = dir }
}

// OptMCaptureDir sets where captured frames are written. Defaults to the preset directory.
func OptMCaptureDir(dir string) Option {
	return func(r *Renderer) { r.captureDir = dir }
}

// OptMHUD shows or hides the overlay at startup.
func OptMHUD(visible bool) Option {
	return func(r *Renderer) { r.hudVisible = visible }
}

// optDevice replaces the GPU device (tests).
func optDevice(dev pipeline.Device) Option {
	return func(r *Renderer) { r.dev = dev }
}

// optClipboard replaces the system clipboard (tests).
func optClipboard(c clipboardBackend) Option {
	return func(r *Renderer) { r.clip = c }
}
