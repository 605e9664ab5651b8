package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Yeicor/fractal-ui/internal/state"
	"github.com/Yeicor/fractal-ui/internal/xform"
)

type fakeImage struct {
	id   int
	w, h int
}

func (i *fakeImage) Size() (int, int) { return i.w, i.h }

type fakeProgram struct {
	id   int
	name string
}

func (p *fakeProgram) Name() string { return p.name }

// fakeDevice records every call and tracks which resources are alive.
type fakeDevice struct {
	next     int
	calls    []string
	programs map[int]bool
	images   map[int]bool
	failNext bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{programs: map[int]bool{}, images: map[int]bool{}}
}

func (d *fakeDevice) log(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) CompileProgram(name string, _ []byte) (Program, error) {
	if d.failNext {
		d.failNext = false
		d.log("compile-fail %s", name)
		return nil, errors.New("syntax error")
	}
	d.next++
	d.programs[d.next] = true
	d.log("compile %s", name)
	return &fakeProgram{id: d.next, name: name}, nil
}

func (d *fakeDevice) NewImage(w, h int) Image {
	d.next++
	d.images[d.next] = true
	d.log("image %dx%d", w, h)
	return &fakeImage{id: d.next, w: w, h: h}
}

func (d *fakeDevice) DrawRect(dst Image, p Program, uniforms map[string]any) {
	d.mustLive(dst, p)
	w, h := dst.Size()
	d.log("rect %s %dx%d", p.Name(), w, h)
}

func (d *fakeDevice) DrawQuad(dst, src Image, p Program, uniforms map[string]any) {
	d.mustLive(src, p)
	w, h := dst.Size()
	d.log("quad %s %dx%d", p.Name(), w, h)
}

func (d *fakeDevice) mustLive(img Image, p Program) {
	if fi := img.(*fakeImage); !d.images[fi.id] {
		panic("draw with released image")
	}
	if fp := p.(*fakeProgram); !d.programs[fp.id] {
		panic("draw with released program")
	}
}

func (d *fakeDevice) ReleaseImage(img Image) {
	id := img.(*fakeImage).id
	if !d.images[id] {
		panic("double release")
	}
	delete(d.images, id)
	d.log("release image")
}

func (d *fakeDevice) ReleaseProgram(p Program) {
	fp := p.(*fakeProgram)
	if !d.programs[fp.id] {
		panic("double release")
	}
	delete(d.programs, fp.id)
	d.log("release %s", fp.name)
}

func (d *fakeDevice) reset() { d.calls = nil }

func frame(t *testing.T, p *Pipeline, st *state.Store, screen Image) {
	t.Helper()
	snap := st.Snapshot()
	if err := p.Frame(screen, &snap, 1.5); err != nil {
		t.Fatal(err)
	}
}

func TestFrameOrder(t *testing.T) {
	dev := newFakeDevice()
	p := New(dev)
	st := state.NewStore(state.DefaultScene())
	st.SetSize(200, 100)
	st.SetDPR(2)
	screen := &fakeImage{w: 200, h: 100}
	frame(t, p, st, screen)
	want := []string{
		"compile fractal2d",
		"image 400x200",
		"rect fractal2d 400x200",
		"compile master",
		"quad master 200x100",
	}
	if strings.Join(dev.calls, "\n") != strings.Join(want, "\n") {
		t.Fatalf("calls:\n%s", strings.Join(dev.calls, "\n"))
	}
	dev.reset()
	frame(t, p, st, screen)
	want = []string{"rect fractal2d 400x200", "quad master 200x100"}
	if strings.Join(dev.calls, "\n") != strings.Join(want, "\n") {
		t.Fatalf("steady state calls:\n%s", strings.Join(dev.calls, "\n"))
	}
}

func TestNoLeaksAcrossSwitchesAndResizes(t *testing.T) {
	dev := newFakeDevice()
	p := New(dev)
	st := state.NewStore(state.DefaultScene())
	screen := &fakeImage{w: 10, h: 10}
	for i := 0; i < 10; i++ {
		st.SetRenderMode(state.RenderMode(i % 2))
		st.SetSize(100+i, 50+i)
		frame(t, p, st, screen)
		if progs, imgs := p.Live(); progs != 2 || imgs != 1 {
			t.Fatalf("iteration %d: %d programs, %d images live", i, progs, imgs)
		}
		if len(dev.programs) != 2 || len(dev.images) != 1 {
			t.Fatalf("iteration %d: device holds %d programs, %d images", i, len(dev.programs), len(dev.images))
		}
	}
	if s := p.Stats(); s.ModeSwitches != 9 || s.Retargets != 10 {
		t.Fatalf("stats %+v", s)
	}
	p.Dispose()
	if len(dev.programs) != 0 || len(dev.images) != 0 {
		t.Fatalf("leaked after dispose: %d programs, %d images", len(dev.programs), len(dev.images))
	}
	snap := st.Snapshot()
	if err := p.Frame(screen, &snap, 0); !errors.Is(err, ErrDisposed) {
		t.Fatalf("frame after dispose: %v", err)
	}
}

func TestReleaseBeforeCompile(t *testing.T) {
	dev := newFakeDevice()
	p := New(dev)
	st := state.NewStore(state.DefaultScene())
	screen := &fakeImage{w: 10, h: 10}
	frame(t, p, st, screen)
	dev.reset()
	st.SetRenderMode(state.Mode3D)
	frame(t, p, st, screen)
	if dev.calls[0] != "release fractal2d" || dev.calls[1] != "compile fractal3d" {
		t.Fatalf("calls %v", dev.calls)
	}
}

func TestUniformsPushedOncePerChange(t *testing.T) {
	dev := newFakeDevice()
	p := New(dev)
	st := state.NewStore(state.DefaultScene())
	screen := &fakeImage{w: 10, h: 10}
	for i := 0; i < 3; i++ {
		frame(t, p, st, screen)
	}
	s := p.Stats()
	if s.ViewPushes != 1 || s.TransformPushes != 1 || s.MasterPushes != 1 || s.BlendPushes != 1 {
		t.Fatalf("initial pushes %+v", s)
	}
	st.SetMaster(func(m *state.Master) { m.Grain = 0.5 })
	st.AddTransform(st.NewTransform())
	for i := 0; i < 3; i++ {
		frame(t, p, st, screen)
	}
	s = p.Stats()
	if s.MasterPushes != 2 || s.TransformPushes != 2 || s.ViewPushes != 1 || s.Frames != 6 {
		t.Fatalf("pushes after change %+v", s)
	}
	if p.master.uniforms.Master.Grain != 0.5 || p.fractal.uniforms.TransformCount != 3 {
		t.Fatal("pushed values not visible in uniforms")
	}
}

func TestTransformCountClamped(t *testing.T) {
	dev := newFakeDevice()
	p := New(dev)
	st := state.NewStore(state.DefaultScene())
	st.Batch(func(tx *state.Tx) {
		tx.SetTransforms(make([]xform.Transform, MaxTransforms+5))
	})
	frame(t, p, st, &fakeImage{w: 10, h: 10})
	u := p.fractal.uniforms
	if u.TransformCount != MaxTransforms || len(u.Transforms) != MaxTransforms*xform.RowStride {
		t.Fatalf("count %v, len %d", u.TransformCount, len(u.Transforms))
	}
}

func TestCompileFailureKeepsCompositing(t *testing.T) {
	dev := newFakeDevice()
	p := New(dev)
	st := state.NewStore(state.DefaultScene())
	screen := &fakeImage{w: 10, h: 10}
	frame(t, p, st, screen)

	dev.failNext = true
	st.SetRenderMode(state.Mode3D)
	dev.reset()
	snap := st.Snapshot()
	if err := p.Frame(screen, &snap, 0); err == nil {
		t.Fatal("compile failure not reported")
	}
	if got := dev.calls[len(dev.calls)-1]; got != "quad master 10x10" {
		t.Fatalf("last call %q", got)
	}
	if progs, _ := p.Live(); progs != 1 {
		t.Fatalf("%d programs live", progs)
	}
}

func TestCompileFailureRetriedEachFrame(t *testing.T) {
	dev := newFakeDevice()
	p := New(dev)
	st := state.NewStore(state.DefaultScene())
	st.SetSize(10, 10)
	screen := &fakeImage{w: 10, h: 10}

	dev.failNext = true
	snap := st.Snapshot()
	if err := p.Frame(screen, &snap, 0); err == nil {
		t.Fatal("compile failure not reported")
	}
	dev.reset()
	if err := p.Frame(screen, &snap, 0); err != nil {
		t.Fatalf("retry: %v", err)
	}
	want := []string{"compile fractal2d", "rect fractal2d 10x10", "quad master 10x10"}
	if strings.Join(dev.calls, "\n") != strings.Join(want, "\n") {
		t.Fatalf("calls after retry:\n%s", strings.Join(dev.calls, "\n"))
	}
	if st := p.Stats(); st.ModeSwitches != 0 {
		t.Fatalf("retry counted as a mode switch: %+v", st)
	}
	if progs, _ := p.Live(); progs != 2 {
		t.Fatalf("%d programs live", progs)
	}

	// Once compiled, steady frames do not recompile
	dev.reset()
	frame(t, p, st, screen)
	if strings.Join(dev.calls, "\n") != "rect fractal2d 10x10\nquad master 10x10" {
		t.Fatalf("steady calls:\n%s", strings.Join(dev.calls, "\n"))
	}
}

func TestPersistentCompileFailureKeepsReporting(t *testing.T) {
	dev := newFakeDevice()
	p := New(dev)
	st := state.NewStore(state.DefaultScene())
	st.SetSize(10, 10)
	screen := &fakeImage{w: 10, h: 10}
	snap := st.Snapshot()
	for i := 0; i < 3; i++ {
		dev.failNext = true
		if err := p.Frame(screen, &snap, 0); err == nil {
			t.Fatalf("frame %d: compile failure not reported", i)
		}
	}
	if st := p.Stats(); st.Frames != 3 {
		t.Fatalf("frames not composited: %+v", st)
	}
}

func TestUniformBinding(t *testing.T) {
	u := FractalUniforms{}
	sc := state.DefaultScene()
	u.setView(sc.View, 1280, 720)
	u.setBlend(sc.Blend)
	u.setTransforms(sc.Transforms)
	m := map[string]any{}
	u.bind(m)
	for _, name := range []string{"Resolution", "Aspect", "Time", "LoopPeriod", "Zoom", "Pan", "Transforms",
		"TransformCount", "Iterations", "FWeights", "JuliaC", "MultiPower", "PhoenixP", "UsePerTransformWeights"} {
		if _, ok := m[name]; !ok {
			t.Errorf("uniform %s not bound", name)
		}
	}
	if m["UsePerTransformWeights"] != float32(1) || m["TransformCount"] != float32(2) {
		t.Errorf("bound %v %v", m["UsePerTransformWeights"], m["TransformCount"])
	}

	mu := MasterUniforms{Master: state.DefaultMaster()}
	mm := map[string]any{}
	mu.bind(mm)
	if len(mm) != 27 {
		t.Errorf("master binds %d uniforms", len(mm))
	}
}
