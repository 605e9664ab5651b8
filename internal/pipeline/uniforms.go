package pipeline

import (
	"github.com/Yeicor/fractal-ui/internal/coords"
	"github.com/Yeicor/fractal-ui/internal/state"
	"github.com/Yeicor/fractal-ui/internal/xform"
)

// MaxTransforms is the number of transform rows the fractal programs can read.
const MaxTransforms = 32

// FractalUniforms are the inputs of the fractal programs. The 3D program reads a subset.
type FractalUniforms struct {
	Resolution             [2]float32 // Offscreen target size in pixels
	Aspect                 float32
	Time                   float32 // Phase-shaped: phase*period
	LoopPeriod             float32
	Zoom                   float32
	Pan                    [2]float32
	Transforms             []float32 // MaxTransforms rows of xform.RowStride floats
	TransformCount         float32
	Iterations             float32
	FWeights               [xform.SetCount]float32
	JuliaC                 [2]float32
	MultiPower             float32
	PhoenixP               float32
	UsePerTransformWeights bool
}

func (u *FractalUniforms) setView(v state.View, targetW, targetH int) {
	u.Resolution = [2]float32{float32(targetW), float32(targetH)}
	u.Aspect = float32(coords.Aspect(float64(targetW), float64(targetH)))
	u.Zoom = float32(v.Zoom)
	u.Pan = [2]float32{float32(v.Pan.X), float32(v.Pan.Y)}
}

func (u *FractalUniforms) setBlend(b state.Blend) {
	for i, w := range b.Weights {
		u.FWeights[i] = float32(w)
	}
	u.JuliaC = [2]float32{float32(b.JuliaC.X), float32(b.JuliaC.Y)}
	u.MultiPower = float32(b.MultibrotPower)
	u.PhoenixP = float32(b.PhoenixP)
	u.UsePerTransformWeights = b.UsePerTransformWeights
}

// setTransforms encodes the list and reports whether it had to be truncated.
func (u *FractalUniforms) setTransforms(list []xform.Transform) (truncated bool) {
	data, count := xform.Encode(list).Padded(MaxTransforms)
	u.Transforms = data
	u.TransformCount = float32(count)
	return len(list) > MaxTransforms
}

// bind writes every uniform into m under the names the programs declare.
func (u *FractalUniforms) bind(m map[string]any) {
	m["Resolution"] = u.Resolution[:]
	m["Aspect"] = u.Aspect
	m["Time"] = u.Time
	m["LoopPeriod"] = u.LoopPeriod
	m["Zoom"] = u.Zoom
	m["Pan"] = u.Pan[:]
	m["Transforms"] = u.Transforms
	m["TransformCount"] = u.TransformCount
	m["Iterations"] = u.Iterations
	m["FWeights"] = u.FWeights[:]
	m["JuliaC"] = u.JuliaC[:]
	m["MultiPower"] = u.MultiPower
	m["PhoenixP"] = u.PhoenixP
	m["UsePerTransformWeights"] = flag(u.UsePerTransformWeights)
}

// MasterUniforms are the inputs of the master program.
type MasterUniforms struct {
	Resolution [2]float32 // Presentation size in pixels
	Time       float32    // Real elapsed time scaled by the time scale
	Master     state.Master
}

// bind writes every uniform into m. Toggles become 0/1 floats; the program skips a disabled effect entirely.
func (u *MasterUniforms) bind(m map[string]any) {
	s := &u.Master
	m["Resolution"] = u.Resolution[:]
	m["Time"] = u.Time
	m["Exposure"] = float32(s.Exposure)
	m["Gamma"] = float32(s.Gamma)
	m["Contrast"] = float32(s.Contrast)
	m["Saturation"] = float32(s.Saturation)
	m["Hue"] = float32(s.Hue)
	m["Vibrance"] = float32(s.Vibrance)
	m["Vignette"] = float32(s.Vignette)
	m["VignetteSoftness"] = float32(s.VignetteSoftness)
	m["CAStrength"] = float32(s.CAStrength)
	m["Grain"] = float32(s.Grain)
	m["Posterize"] = float32(s.Posterize)
	m["PixelizeEnabled"] = flag(s.PixelizeEnabled)
	m["PixelSize"] = float32(s.PixelSize)
	m["RainbowEnabled"] = flag(s.RainbowEnabled)
	m["RainbowStrength"] = float32(s.RainbowStrength)
	m["RainbowSpeed"] = float32(s.RainbowSpeed)
	m["RainbowScale"] = float32(s.RainbowScale)
	m["WarpEnabled"] = flag(s.WarpEnabled)
	m["WarpAmount"] = float32(s.WarpAmount)
	m["WarpFreq"] = float32(s.WarpFreq)
	m["GlitchEnabled"] = flag(s.GlitchEnabled)
	m["GlitchStrength"] = float32(s.GlitchStrength)
	m["GlitchBlock"] = float32(s.GlitchBlock)
	m["GlitchSpeed"] = float32(s.GlitchSpeed)
	m["GlitchRGBSplit"] = float32(s.GlitchRGBSplit)
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
