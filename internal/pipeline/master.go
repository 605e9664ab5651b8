package pipeline

import "fmt"

// MasterPass post-processes the fractal target onto the presentation surface.
type MasterPass struct {
	res      *resources
	program  Handle
	disposed bool
	uniforms MasterUniforms
	bound    map[string]any
}

func newMasterPass(res *resources) *MasterPass {
	return &MasterPass{res: res, bound: map[string]any{}}
}

func (p *MasterPass) ensureProgram() error {
	if p.disposed {
		return ErrDisposed
	}
	if p.program.Valid() {
		return nil
	}
	h, err := p.res.compile("master", masterSource)
	if err != nil {
		return fmt.Errorf("compile master: %w", err)
	}
	p.program = h
	return nil
}

// Draw composites src onto dst at dst's size.
func (p *MasterPass) Draw(dst, src Image) error {
	if err := p.ensureProgram(); err != nil {
		return err
	}
	prog, _ := p.res.program(p.program)
	w, h := dst.Size()
	p.uniforms.Resolution = [2]float32{float32(w), float32(h)}
	p.uniforms.bind(p.bound)
	p.res.dev.DrawQuad(dst, src, prog, p.bound)
	return nil
}

// Dispose releases the program.
func (p *MasterPass) Dispose() {
	p.res.releaseProgram(&p.program)
	p.disposed = true
}
