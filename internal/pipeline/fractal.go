package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/Yeicor/fractal-ui/internal/state"
)

// ErrDisposed is returned when a disposed pass is asked to do work.
var ErrDisposed = errors.New("pass disposed")

type passState int

const (
	passUninitialized passState = iota
	passActive
	passDisposed
)

func (s passState) String() string {
	switch s {
	case passUninitialized:
		return "uninitialized"
	case passActive:
		return "active"
	case passDisposed:
		return "disposed"
	}
	return fmt.Sprintf("passState(%d)", int(s))
}

// FractalPass draws the fractal program for the current render mode into an offscreen target.
type FractalPass struct {
	res      *resources
	state    passState
	mode     state.RenderMode
	program  Handle // Zero while no program compiled (also after a failed compile)
	target   Handle
	targetW  int
	targetH  int
	uniforms FractalUniforms
	bound    map[string]any
}

func newFractalPass(res *resources) *FractalPass {
	return &FractalPass{res: res, bound: map[string]any{}}
}

// Activate compiles the program for mode. The previous program, if any, is released first, so at most one fractal
// program exists at any time. Activating the current mode again is a no-op.
func (p *FractalPass) Activate(mode state.RenderMode) error {
	switch p.state {
	case passDisposed:
		return ErrDisposed
	case passActive:
		if p.mode == mode && p.program.Valid() {
			return nil
		}
	}
	p.res.releaseProgram(&p.program)
	p.state, p.mode = passActive, mode
	name, src := fractalSource(mode)
	h, err := p.res.compile(name, src)
	if err != nil {
		return fmt.Errorf("compile %s: %w", name, err)
	}
	p.program = h
	return nil
}

// Ready reports whether a program for the current mode is compiled.
func (p *FractalPass) Ready() bool {
	return p.state == passActive && p.program.Valid()
}

// Resize makes sure the target is max(1,floor(w*dpr)) by max(1,floor(h*dpr)) pixels. It reports whether the
// target was reallocated.
func (p *FractalPass) Resize(w, h int, dpr float64) (bool, error) {
	if p.state == passDisposed {
		return false, ErrDisposed
	}
	tw, th := TargetSize(w, h, dpr)
	if p.target.Valid() && tw == p.targetW && th == p.targetH {
		return false, nil
	}
	p.res.releaseImage(&p.target)
	p.target = p.res.newImage(tw, th)
	p.targetW, p.targetH = tw, th
	return true, nil
}

// TargetSize returns the offscreen target size for a logical size and pixel ratio.
func TargetSize(w, h int, dpr float64) (int, int) {
	if !(dpr > 0) {
		dpr = 1
	}
	return max(1, int(math.Floor(float64(w)*dpr))), max(1, int(math.Floor(float64(h)*dpr)))
}

// Target returns the offscreen image, if allocated.
func (p *FractalPass) Target() (Image, bool) {
	return p.res.image(p.target)
}

// Mode returns the active render mode.
func (p *FractalPass) Mode() state.RenderMode { return p.mode }

// Draw renders into the target. Without a compiled program (failed compile) the target keeps its last contents.
func (p *FractalPass) Draw() error {
	if p.state != passActive {
		return fmt.Errorf("draw in state %v", p.state)
	}
	prog, ok := p.res.program(p.program)
	if !ok {
		return nil
	}
	dst, ok := p.res.image(p.target)
	if !ok {
		return nil
	}
	p.uniforms.bind(p.bound)
	p.res.dev.DrawRect(dst, prog, p.bound)
	return nil
}

// Dispose releases the program and the target. The pass cannot be used afterwards.
func (p *FractalPass) Dispose() {
	p.res.releaseProgram(&p.program)
	p.res.releaseImage(&p.target)
	p.state = passDisposed
}
