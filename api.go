package ui

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"time"

	"github.com/Yeicor/fractal-ui/internal/coords"
	"github.com/Yeicor/fractal-ui/internal/pipeline"
	"github.com/Yeicor/fractal-ui/internal/state"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/subchen/go-trylock/v2"
)

// Renderer is the interactive fractal viewer: it owns the scene, the GPU pipeline and the window.
type Renderer struct {
	store *state.Store
	pipe  *pipeline.Pipeline
	dev   pipeline.Device
	start time.Time
	snap  state.Snapshot // Last snapshot drawn, reused when the store is busy
	fresh bool           // Whether snap has been taken at least once

	// Options
	title      string
	tps        int
	initial    state.Scene
	watchFiles []string
	presetDir  string
	captureDir string
	clip       clipboardBackend
	hudVisible bool

	// Interaction
	pan          coords.Drag
	draggingID   string // Transform whose handle is being dragged
	selectedID   string // Last transform added or dragged
	importing    tryRWLocker
	statusMu     sync.Mutex
	status       string
	statusUntil  time.Time
	captureQueue chan captureRequest
	captureNext  bool
	lastFrameErr string

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRenderer creates a renderer with the default scene, modified by the given options.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		title:      "fractal-ui",
		tps:        60,
		initial:    state.DefaultScene(),
		presetDir:  ".",
		clip:       systemClipboard{},
		hudVisible: true,
		dev:        pipeline.EbitenDevice{},
		importing:  trylock.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.captureDir == "" {
		r.captureDir = r.presetDir
	}
	r.store = state.NewStore(r.initial)
	r.pipe = pipeline.New(r.dev)
	r.ctx, r.cancel = context.WithCancel(context.Background())
	return r
}

// Run opens the window and blocks until it is closed or the process receives a termination signal.
func (r *Renderer) Run() error {
	ctx, stop := signal.NotifyContext(r.ctx, signals()...)
	defer stop()
	r.ctx = ctx
	defer r.cancel()

	if len(r.watchFiles) > 0 {
		if err := r.watch(ctx, r.watchFiles); err != nil {
			logger().Warn("preset watching disabled", "err", err)
		}
	}
	r.startCaptureWorker(ctx)

	snap := r.store.Snapshot()
	ebiten.SetWindowTitle(r.title)
	ebiten.SetWindowSize(snap.View.Width, snap.View.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(r.tps)
	r.start = time.Now()
	logger().Info("starting", "mode", snap.Mode, "transforms", len(snap.Transforms))

	err := ebiten.RunGame(rendererEbitenGame{r})
	r.pipe.Dispose()
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// Store exposes the scene for programmatic control.
func (r *Renderer) Store() *state.Store { return r.store }

// latest returns the current scene without waiting for a writer: if one holds the store, the last drawn snapshot
// is returned instead and the change shows up on the next call. Only the very first call waits.
func (r *Renderer) latest() state.Snapshot {
	if !r.fresh {
		r.snap, r.fresh = r.store.Snapshot(), true
		return r.snap
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	if snap, ok := r.store.TrySnapshot(ctx); ok {
		return snap
	}
	return r.snap
}

// frame draws one frame onto screen. It never waits for the store (see latest).
func (r *Renderer) frame(screen pipeline.Image) {
	r.snap = r.latest()
	err := r.pipe.Frame(screen, &r.snap, time.Since(r.start).Seconds())
	if err != nil {
		if msg := err.Error(); msg != r.lastFrameErr { // Log once per distinct failure
			logger().Error("frame failed", "err", err)
			r.setStatus("Render error: " + msg)
			r.lastFrameErr = msg
		}
	} else {
		r.lastFrameErr = ""
	}
}

func (r *Renderer) setStatus(msg string) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status = msg
	r.statusUntil = time.Now().Add(4 * time.Second)
}

func (r *Renderer) currentStatus() string {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	if time.Now().After(r.statusUntil) {
		return ""
	}
	return r.status
}

// tryRWLocker is the subset of the trylock mutex used for the importing indicator.
type tryRWLocker interface {
	Lock()
	Unlock()
	RTryLock(ctx context.Context) bool
	RUnlock()
}
