package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Yeicor/fractal-ui/internal/coords"
	"github.com/Yeicor/fractal-ui/internal/pipeline"
	"github.com/Yeicor/fractal-ui/internal/state"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

type nopImage struct{ w, h int }

func (i *nopImage) Size() (int, int) { return i.w, i.h }

type nopProgram string

func (p nopProgram) Name() string { return string(p) }

// nopDevice accepts every call without drawing anything.
type nopDevice struct{ compiled []string }

func (d *nopDevice) CompileProgram(name string, _ []byte) (pipeline.Program, error) {
	d.compiled = append(d.compiled, name)
	return nopProgram(name), nil
}
func (d *nopDevice) NewImage(w, h int) pipeline.Image                                   { return &nopImage{w, h} }
func (d *nopDevice) DrawRect(pipeline.Image, pipeline.Program, map[string]any)          {}
func (d *nopDevice) DrawQuad(_, _ pipeline.Image, _ pipeline.Program, _ map[string]any) {}
func (d *nopDevice) ReleaseImage(pipeline.Image)                                        {}
func (d *nopDevice) ReleaseProgram(pipeline.Program)                                    {}

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	opts = append([]Option{optDevice(&nopDevice{}), OptMWindowSize(400, 200), OptMPresetDir(t.TempDir())}, opts...)
	r := NewRenderer(opts...)
	t.Cleanup(r.cancel)
	return r
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestWheelZoomsAtCursor(t *testing.T) {
	r := newTestRenderer(t)
	before := r.store.Snapshot().View.Camera()
	cursor := v2.Vec{X: 300, Y: 40}
	fixed := before.DomainAt(cursor.X, cursor.Y, 400, 200)

	r.handleInput(input{cursor: cursor, wheel: 100})
	after := r.store.Snapshot().View.Camera()
	if !near(after.Zoom, math.Exp(-100*coords.WheelSensitivity)) {
		t.Fatalf("zoom = %v", after.Zoom)
	}
	if got := after.DomainAt(cursor.X, cursor.Y, 400, 200); !near(got.X, fixed.X) || !near(got.Y, fixed.Y) {
		t.Fatalf("point under cursor moved from %v to %v", fixed, got)
	}
}

func TestAltDragPans(t *testing.T) {
	r := newTestRenderer(t)
	r.handleInput(input{cursor: v2.Vec{X: 100, Y: 100}, left: true, leftPressed: true, alt: true})
	r.handleInput(input{cursor: v2.Vec{X: 140, Y: 80}, left: true, alt: true})
	pan := r.store.Snapshot().View.Pan
	if !near(pan.X, 0.1) || !near(pan.Y, 0.1) {
		t.Fatalf("pan = %v", pan)
	}
	r.handleInput(input{cursor: v2.Vec{X: 300, Y: 10}})
	r.handleInput(input{cursor: v2.Vec{X: 0, Y: 0}})
	if got := r.store.Snapshot().View.Pan; got != pan {
		t.Fatalf("pan changed after release: %v", got)
	}
}

func TestHandleDrag(t *testing.T) {
	r := newTestRenderer(t)
	// t1 sits at (-0.3, 0.1), which is pixel (170, 90) in a 400x200 view
	r.handleInput(input{cursor: v2.Vec{X: 171, Y: 91}, left: true, leftPressed: true})
	if r.draggingID != "t1" {
		t.Fatalf("dragging %q", r.draggingID)
	}
	r.handleInput(input{cursor: v2.Vec{X: 300, Y: 50}, left: true})
	snap := r.store.Snapshot()
	if p := snap.Transforms[0].Pos; !near(p.X, 1) || !near(p.Y, 0.5) {
		t.Fatalf("pos = %v", p)
	}
	// Beyond the window the position is clamped
	r.handleInput(input{cursor: v2.Vec{X: 5000, Y: -5000}, left: true})
	if p := r.store.Snapshot().Transforms[0].Pos; p.X != coords.HandleLimit || p.Y != coords.HandleLimit {
		t.Fatalf("pos = %v", p)
	}
	r.handleInput(input{})
	if r.draggingID != "" || r.selectedID != "t1" {
		t.Fatalf("dragging %q, selected %q", r.draggingID, r.selectedID)
	}
}

func TestHandlesIgnoredWhenHUDHidden(t *testing.T) {
	r := newTestRenderer(t, OptMHUD(false))
	r.handleInput(input{cursor: v2.Vec{X: 170, Y: 90}, left: true, leftPressed: true})
	if r.draggingID != "" {
		t.Fatalf("dragging %q with hidden handles", r.draggingID)
	}
}

func TestAddAndRemoveTransform(t *testing.T) {
	r := newTestRenderer(t)
	r.handleInput(input{cursor: v2.Vec{X: 200, Y: 100}, actions: []action{actAddTransform}})
	snap := r.store.Snapshot()
	if len(snap.Transforms) != 3 {
		t.Fatalf("%d transforms", len(snap.Transforms))
	}
	added := snap.Transforms[2]
	if added.ID != r.selectedID || added.ID == "" {
		t.Fatalf("added %q, selected %q", added.ID, r.selectedID)
	}
	if !near(added.Pos.X, 0) || !near(added.Pos.Y, 0) {
		t.Fatalf("added at %v", added.Pos)
	}

	r.handleInput(input{actions: []action{actRemoveTransform}})
	snap = r.store.Snapshot()
	if len(snap.Transforms) != 2 || snap.Transforms[1].ID != "t2" {
		t.Fatalf("transforms after remove: %+v", snap.Transforms)
	}
	// Without a selection the last transform goes
	r.handleInput(input{actions: []action{actRemoveTransform}})
	if snap = r.store.Snapshot(); len(snap.Transforms) != 1 || snap.Transforms[0].ID != "t1" {
		t.Fatalf("transforms after second remove: %+v", snap.Transforms)
	}
}

func TestCycleActions(t *testing.T) {
	r := newTestRenderer(t)
	r.handleInput(input{actions: []action{actToggleMode, actCycleQuality, actCycleLoop, actToggleHUD}})
	snap := r.store.Snapshot()
	if snap.Mode != state.Mode3D {
		t.Fatalf("mode = %v", snap.Mode)
	}
	if snap.Quality.Tier != "200%" {
		t.Fatalf("quality = %v", snap.Quality.Tier)
	}
	if snap.Loop.Mode.String() != "pingpong" {
		t.Fatalf("loop = %v", snap.Loop.Mode)
	}
	if r.hudVisible {
		t.Fatal("HUD still visible")
	}

	r.store.SetCamera(coords.Camera{Zoom: 3, Pan: v2.Vec{X: 1}})
	r.handleInput(input{actions: []action{actToggleMode, actResetCamera}})
	snap = r.store.Snapshot()
	if snap.Mode != state.Mode2D || snap.View.Zoom != 1 || snap.View.Pan != (v2.Vec{}) {
		t.Fatalf("mode %v, camera %v", snap.Mode, snap.View.Camera())
	}
}

func TestPickHandleTopmost(t *testing.T) {
	r := newTestRenderer(t)
	snap := r.store.Snapshot()
	list := append(snap.Transforms, snap.Transforms[0])
	list[2].ID = "top"
	if got := pickHandle(list, v2.Vec{X: 170, Y: 90}, 400, 200); got != "top" {
		t.Fatalf("picked %q", got)
	}
	if got := pickHandle(list, v2.Vec{X: 170 + handleRadius + 1, Y: 90}, 400, 200); got != "" {
		t.Fatalf("picked %q outside the radius", got)
	}
}

func TestFrameUsesLatestSnapshot(t *testing.T) {
	dev := &nopDevice{}
	r := newTestRenderer(t, optDevice(dev))
	screen := &nopImage{400, 200}
	r.frame(screen)
	r.store.SetRenderMode(state.Mode3D)
	r.frame(screen)
	if r.snap.Mode != state.Mode3D {
		t.Fatal("second frame drew a stale snapshot")
	}
	if st := r.pipe.Stats(); st.Frames != 2 || st.ModeSwitches != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if got := strings.Join(dev.compiled, ","); got != "fractal2d,master,fractal3d" {
		t.Fatalf("compiled %s", got)
	}
}

func TestHUDText(t *testing.T) {
	snap := state.Snapshot{Scene: state.DefaultScene()}
	msg := hudText(snap, pipeline.Stats{Frames: 7}, 59.5)
	for _, want := range []string{"Fractal 2D", "frames: 7", "Quality: 100%, 140 iterations", "Transforms: 2"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}
	snap.Mode = state.Mode3D
	if msg = hudText(snap, pipeline.Stats{}, 0); !strings.HasPrefix(msg, "Fractal 3D") {
		t.Errorf("3D title missing:\n%s", msg)
	}
}

func TestUpdateDoesNotWaitForWriter(t *testing.T) {
	r := newTestRenderer(t)
	r.handleInput(input{}) // First read takes the initial snapshot

	locked, release, finished := make(chan struct{}), make(chan struct{}), make(chan struct{})
	go func() {
		r.store.Batch(func(tx *state.Tx) {
			close(locked)
			<-release
			tx.SetSize(640, 480)
		})
		close(finished)
	}()
	<-locked

	done := make(chan bool)
	go func() {
		r.handleInput(input{cursor: v2.Vec{X: 10, Y: 10}})
		done <- r.pushLayout(800, 600, 1)
	}()
	select {
	case pushed := <-done:
		if pushed {
			t.Fatal("layout pushed while a writer held the store")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("update blocked on a writer")
	}
	close(release)
	<-finished

	if !r.pushLayout(800, 600, 2) {
		t.Fatal("layout push failed on an idle store")
	}
	if v := r.store.Snapshot().View; v.Width != 800 || v.Height != 600 || v.DPR != 2 {
		t.Fatalf("view %+v", v)
	}
}
