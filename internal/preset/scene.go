package preset

import (
	"fmt"

	"github.com/Yeicor/fractal-ui/internal/loop"
	"github.com/Yeicor/fractal-ui/internal/state"
	"github.com/Yeicor/fractal-ui/internal/xform"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ScenePreset is the scene document. Version 1 carries the camera, loop period, quality, blend and transforms;
// version 2 adds RenderMode and LoopMode.
type ScenePreset struct {
	Version                int             `json:"version"`
	RenderMode             *string         `json:"renderMode,omitempty"`
	LoopMode               *string         `json:"loopMode,omitempty"`
	Zoom                   *float64        `json:"zoom,omitempty"`
	Pan                    []float64       `json:"pan,omitempty" preset:"len=2"`
	LoopPeriod             *float64        `json:"loopPeriod,omitempty"`
	IterationsBase         *int            `json:"iterationsBase,omitempty"`
	Quality                *string         `json:"quality,omitempty"`
	FractalWeights         *FractalWeights `json:"fractalWeights,omitempty"`
	JuliaC                 []float64       `json:"juliaC,omitempty" preset:"len=2"`
	MultibrotPower         *float64        `json:"multibrotPower,omitempty"`
	PhoenixP               *float64        `json:"phoenixP,omitempty"`
	UsePerTransformWeights *bool           `json:"usePerTransformWeights,omitempty"`
	Transforms             []Transform     `json:"transforms"`
}

// FractalWeights names the five global set weights.
type FractalWeights struct {
	Mandelbrot  *float64 `json:"mandelbrot,omitempty"`
	Julia       *float64 `json:"julia,omitempty"`
	BurningShip *float64 `json:"burningShip,omitempty"`
	Multibrot   *float64 `json:"multibrot,omitempty"`
	Phoenix     *float64 `json:"phoenix,omitempty"`
}

func (w *FractalWeights) slots() [xform.SetCount]**float64 {
	return [...]**float64{&w.Mandelbrot, &w.Julia, &w.BurningShip, &w.Multibrot, &w.Phoenix}
}

// Transform is one entry of the transform list. Missing fields take the values of a freshly added transform.
type Transform struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Pos        []float64 `json:"pos" preset:"len=2"`
	Weight     *float64  `json:"weight,omitempty"`
	Params     []float64 `json:"params" preset:"len=4"`
	Color      []float64 `json:"color" preset:"len=3"`
	SetWeights []float64 `json:"setWeights" preset:"len=5"`
}

// ExportScene captures the preset-relevant part of a scene at the latest version.
func ExportScene(s state.Scene) ScenePreset {
	p := ScenePreset{
		Version:                SceneVersion,
		RenderMode:             ptr(s.Mode.String()),
		LoopMode:               ptr(s.Loop.Mode.String()),
		Zoom:                   ptr(s.View.Zoom),
		Pan:                    []float64{s.View.Pan.X, s.View.Pan.Y},
		LoopPeriod:             ptr(s.Loop.Period),
		IterationsBase:         ptr(s.Quality.IterationsBase),
		Quality:                ptr(s.Quality.Tier),
		FractalWeights:         &FractalWeights{},
		JuliaC:                 []float64{s.Blend.JuliaC.X, s.Blend.JuliaC.Y},
		MultibrotPower:         ptr(s.Blend.MultibrotPower),
		PhoenixP:               ptr(s.Blend.PhoenixP),
		UsePerTransformWeights: ptr(s.Blend.UsePerTransformWeights),
		Transforms:             make([]Transform, 0, len(s.Transforms)),
	}
	for i, slot := range p.FractalWeights.slots() {
		*slot = ptr(s.Blend.Weights[i])
	}
	for _, t := range s.Transforms {
		p.Transforms = append(p.Transforms, Transform{
			ID:         t.ID,
			Type:       t.Type.String(),
			Pos:        []float64{t.Pos.X, t.Pos.Y},
			Weight:     ptr(t.Weight),
			Params:     t.Params[:],
			Color:      t.Color[:],
			SetWeights: t.SetWeights[:],
		})
	}
	return p
}

// ApplyScene applies p inside a single batch, so the frame loop sees all of it or none of it. An unknown version
// returns ErrUnrecognizedVersion and changes nothing.
func ApplyScene(st *state.Store, p *ScenePreset) error {
	if p.Version != 1 && p.Version != 2 {
		return fmt.Errorf("%w: scene version %d", ErrUnrecognizedVersion, p.Version)
	}
	st.Batch(func(tx *state.Tx) { ApplySceneTx(tx, p) })
	return nil
}

// ApplySceneTx applies a scene preset of a known version within an existing batch.
func ApplySceneTx(tx *state.Tx, p *ScenePreset) {
	if p.Zoom != nil {
		tx.SetZoom(*p.Zoom)
	}
	if p.Pan != nil {
		tx.SetPan(v2.Vec{X: p.Pan[0], Y: p.Pan[1]})
	}
	if p.LoopPeriod != nil {
		tx.SetLoopPeriod(*p.LoopPeriod)
	}
	if p.IterationsBase != nil {
		tx.SetIterationsBase(*p.IterationsBase)
	}
	if p.Quality != nil {
		tx.SetQuality(*p.Quality)
	}
	if p.FractalWeights != nil {
		for i, slot := range p.FractalWeights.slots() {
			if *slot != nil {
				tx.SetFractalWeight(i, **slot)
			}
		}
	}
	if p.JuliaC != nil {
		tx.SetJuliaC(v2.Vec{X: p.JuliaC[0], Y: p.JuliaC[1]})
	}
	if p.MultibrotPower != nil {
		tx.SetMultibrotPower(*p.MultibrotPower)
	}
	if p.PhoenixP != nil {
		tx.SetPhoenixP(*p.PhoenixP)
	}
	if p.UsePerTransformWeights != nil {
		tx.SetUsePerTransformWeights(*p.UsePerTransformWeights)
	}
	if p.Transforms != nil {
		list := make([]xform.Transform, 0, len(p.Transforms))
		for i := range p.Transforms {
			list = append(list, p.Transforms[i].toModel())
		}
		tx.SetTransforms(list)
	}
	if p.Version < 2 {
		return
	}
	if p.RenderMode != nil {
		if m, ok := state.ParseRenderMode(*p.RenderMode); ok {
			tx.SetRenderMode(m)
		} else {
			logger().Warn("ignoring unknown render mode", "renderMode", *p.RenderMode)
		}
	}
	if p.LoopMode != nil {
		if m, ok := loop.ParseMode(*p.LoopMode); ok {
			tx.SetLoopMode(m)
		} else {
			logger().Warn("ignoring unknown loop mode", "loopMode", *p.LoopMode)
		}
	}
}

func (t *Transform) toModel() xform.Transform {
	out := xform.Default()
	out.ID = t.ID
	if typ, ok := xform.ParseType(t.Type); ok {
		out.Type = typ
	} else if t.Type != "" {
		logger().Warn("unknown transform type, importing as translate", "id", t.ID, "type", t.Type)
	}
	if t.Pos != nil {
		out.Pos = v2.Vec{X: t.Pos[0], Y: t.Pos[1]}
	}
	if t.Weight != nil {
		out.Weight = *t.Weight
	}
	copy(out.Params[:], t.Params)
	copy(out.Color[:], t.Color)
	if t.SetWeights != nil {
		copy(out.SetWeights[:], t.SetWeights)
	}
	return out
}

// DecodeScene parses and validates a scene document without applying it.
func DecodeScene(text []byte) (*ScenePreset, error) {
	version, err := peekVersion(text)
	if err != nil {
		return nil, err
	}
	if version != 1 && version != 2 {
		return nil, fmt.Errorf("%w: scene version %d", ErrUnrecognizedVersion, version)
	}
	p := &ScenePreset{}
	if err = decode(text, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ImportScene decodes text and applies it. On any error the store is left as it was.
func ImportScene(st *state.Store, text []byte) error {
	p, err := DecodeScene(text)
	if err != nil {
		return err
	}
	if err = ApplyScene(st, p); err != nil {
		return err
	}
	logger().Info("scene preset applied", "version", p.Version, "transforms", len(p.Transforms))
	return nil
}
