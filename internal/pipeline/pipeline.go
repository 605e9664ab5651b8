package pipeline

import (
	"errors"
	"log/slog"

	"github.com/Yeicor/fractal-ui/internal/logging"
	"github.com/Yeicor/fractal-ui/internal/loop"
	"github.com/Yeicor/fractal-ui/internal/state"
)

func logger() *slog.Logger { return logging.For("pipeline") }

// Stats counts the work done so far. Pushes count per-group uniform updates, which only happen when the group's
// version moved.
type Stats struct {
	Frames          int
	ModeSwitches    int
	Retargets       int
	ViewPushes      int
	LoopPushes      int
	BlendPushes     int
	QualityPushes   int
	TransformPushes int
	MasterPushes    int
}

// Pipeline owns both passes and the GPU resources behind them.
type Pipeline struct {
	res      *resources
	fractal  *FractalPass
	master   *MasterPass
	last     state.Versions // Zero before the first frame, so everything starts dirty
	stats    Stats
	disposed bool
}

// New creates a pipeline drawing with dev. Nothing is allocated until the first frame.
func New(dev Device) *Pipeline {
	res := &resources{dev: dev}
	return &Pipeline{
		res:     res,
		fractal: newFractalPass(res),
		master:  newMasterPass(res),
	}
}

// Frame renders snap onto screen. elapsed is wall-clock seconds since start.
//
// Order is fixed: dirty uniforms are pushed, then the fractal pass draws into its target, then the master pass
// draws that target onto screen. A program compile failure is returned on every frame until a retry succeeds, but
// the frame is still composited so the last good fractal image stays visible.
func (p *Pipeline) Frame(screen Image, snap *state.Snapshot, elapsed float64) error {
	if p.disposed {
		return ErrDisposed
	}
	var errs []error
	v := snap.Versions

	// A failed compile is retried every frame until it succeeds or the mode changes again
	if v.Mode != p.last.Mode || !p.fractal.Ready() {
		if v.Mode != p.last.Mode && p.last.Mode != 0 {
			p.stats.ModeSwitches++
			logger().Info("switching render mode", "mode", snap.Mode)
		}
		if err := p.fractal.Activate(snap.Mode); err != nil {
			errs = append(errs, err)
		}
	}
	if v.View != p.last.View {
		resized, err := p.fractal.Resize(snap.View.Width, snap.View.Height, snap.View.DPR)
		if err != nil {
			return err
		}
		if resized {
			p.stats.Retargets++
			logger().Debug("offscreen target reallocated", "w", p.fractal.targetW, "h", p.fractal.targetH)
		}
		p.fractal.uniforms.setView(snap.View, p.fractal.targetW, p.fractal.targetH)
		p.stats.ViewPushes++
	}
	if v.Loop != p.last.Loop {
		p.fractal.uniforms.LoopPeriod = float32(snap.Loop.Period)
		p.stats.LoopPushes++
	}
	if v.Blend != p.last.Blend {
		p.fractal.uniforms.setBlend(snap.Blend)
		p.stats.BlendPushes++
	}
	if v.Quality != p.last.Quality {
		p.fractal.uniforms.Iterations = float32(Iterations(snap.Quality.IterationsBase, snap.Quality.Tier))
		p.stats.QualityPushes++
	}
	if v.Transforms != p.last.Transforms {
		if p.fractal.uniforms.setTransforms(snap.Transforms) {
			logger().Warn("too many transforms, extra ones are not rendered",
				"count", len(snap.Transforms), "max", MaxTransforms)
		}
		p.stats.TransformPushes++
	}
	if v.Master != p.last.Master {
		p.master.uniforms.Master = snap.Master
		p.stats.MasterPushes++
	}
	p.last = v

	scaled := elapsed * snap.Loop.TimeScale
	p.fractal.uniforms.Time = float32(loop.AnimationTime(scaled, snap.Loop.Period, snap.Loop.Mode))
	p.master.uniforms.Time = float32(scaled)

	if err := p.fractal.Draw(); err != nil {
		return errors.Join(append(errs, err)...)
	}
	target, ok := p.fractal.Target()
	if !ok {
		return errors.Join(append(errs, errors.New("no offscreen target"))...)
	}
	if err := p.master.Draw(screen, target); err != nil {
		errs = append(errs, err)
	}
	p.stats.Frames++
	return errors.Join(errs...)
}

// Target returns the offscreen fractal image of the last frame.
func (p *Pipeline) Target() (Image, bool) { return p.fractal.Target() }

// Stats returns the work counters.
func (p *Pipeline) Stats() Stats { return p.stats }

// Live returns how many programs and images the pipeline currently holds.
func (p *Pipeline) Live() (programs, images int) {
	return p.res.programs.Len(), p.res.images.Len()
}

// Dispose releases every GPU resource. Later frames return ErrDisposed.
func (p *Pipeline) Dispose() {
	if p.disposed {
		return
	}
	p.fractal.Dispose()
	p.master.Dispose()
	p.disposed = true
}
