// Package state holds the scene shared between input handling, preset IO and the frame loop.
package state

import (
	"fmt"

	"github.com/Yeicor/fractal-ui/internal/coords"
	"github.com/Yeicor/fractal-ui/internal/loop"
	"github.com/Yeicor/fractal-ui/internal/xform"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// RenderMode selects the fractal program family.
type RenderMode int

const (
	Mode2D RenderMode = iota
	Mode3D
)

func (m RenderMode) String() string {
	switch m {
	case Mode2D:
		return "2d"
	case Mode3D:
		return "3d"
	}
	return fmt.Sprintf("RenderMode(%d)", int(m))
}

// ParseRenderMode returns the mode named "2d" or "3d".
func ParseRenderMode(s string) (RenderMode, bool) {
	switch s {
	case "2d":
		return Mode2D, true
	case "3d":
		return Mode3D, true
	}
	return Mode2D, false
}

// View is the viewport and camera.
type View struct {
	Width, Height int     // Logical (presentation) size, never below 1
	DPR           float64 // Device pixel ratio used to size the offscreen target
	Zoom          float64 // Always within [coords.ZoomMin, coords.ZoomMax]
	Pan           v2.Vec
}

// Camera returns the zoom/pan pair.
func (v View) Camera() coords.Camera {
	return coords.Camera{Zoom: v.Zoom, Pan: v.Pan}
}

// Loop configures the animation loop.
type Loop struct {
	Period    float64 // Seconds per loop, never below loop.MinPeriod
	TimeScale float64
	Mode      loop.Mode
}

// Blend weights the five fractal sets: mandelbrot, julia, burning ship, multibrot, phoenix (2D), or bulb, julia
// bulb, mandelbox, menger, sierpinski (3D).
type Blend struct {
	Weights                [xform.SetCount]float64 // Each >= 0
	JuliaC                 v2.Vec
	MultibrotPower         float64 // >= 1
	PhoenixP               float64
	UsePerTransformWeights bool
}

// Quality sets the iteration budget.
type Quality struct {
	IterationsBase int
	Tier           string // One of the pipeline quality tiers; unknown tiers render at 100%
}

// Master holds every post-processing parameter. Ranges are enforced by the controls, not here.
type Master struct {
	Exposure         float64
	Gamma            float64
	Contrast         float64
	Saturation       float64
	Hue              float64
	Vibrance         float64
	Vignette         float64
	VignetteSoftness float64
	CAStrength       float64
	Grain            float64
	Posterize        float64

	PixelizeEnabled bool
	PixelSize       float64

	RainbowEnabled  bool
	RainbowStrength float64
	RainbowSpeed    float64
	RainbowScale    float64

	WarpEnabled bool
	WarpAmount  float64
	WarpFreq    float64

	GlitchEnabled  bool
	GlitchStrength float64
	GlitchBlock    float64
	GlitchSpeed    float64
	GlitchRGBSplit float64
}

// Scene is everything the pipeline reads each frame.
type Scene struct {
	View       View
	Loop       Loop
	Blend      Blend
	Quality    Quality
	Mode       RenderMode
	Transforms []xform.Transform
	Master     Master
}

// Versions counts changes per parameter group. A group's counter only moves when its value actually changed.
type Versions struct {
	View, Loop, Blend, Quality, Mode, Transforms, Master uint64
}

// Snapshot is a deep copy of the scene together with the versions it was taken at.
type Snapshot struct {
	Scene
	Versions Versions
}

// DefaultMaster returns the initial post-processing settings.
func DefaultMaster() Master {
	return Master{
		Exposure:         0,
		Gamma:            1,
		Contrast:         1,
		Saturation:       1,
		Hue:              0,
		Vibrance:         1,
		Vignette:         0.35,
		VignetteSoftness: 0.6,
		CAStrength:       0,
		Grain:            0.05,
		Posterize:        0,
		PixelSize:        6,
		RainbowStrength:  0.4,
		RainbowSpeed:     0.2,
		RainbowScale:     2,
		WarpAmount:       0.03,
		WarpFreq:         5,
		GlitchStrength:   0.25,
		GlitchBlock:      24,
		GlitchSpeed:      1,
		GlitchRGBSplit:   0.004,
	}
}

// DefaultScene returns the scene shown at startup.
func DefaultScene() Scene {
	return Scene{
		View:  View{Width: 1280, Height: 720, DPR: 1, Zoom: 1},
		Loop:  Loop{Period: 8, TimeScale: 1, Mode: loop.Linear},
		Blend: Blend{Weights: [xform.SetCount]float64{1, 0, 0, 0, 0}, JuliaC: v2.Vec{X: -0.73, Y: 0.19}, MultibrotPower: 3, PhoenixP: -0.5, UsePerTransformWeights: true},
		Quality: Quality{
			IterationsBase: 140,
			Tier:           "100%",
		},
		Mode: Mode2D,
		Transforms: []xform.Transform{
			{
				ID:         "t1",
				Type:       xform.Swirl,
				Pos:        v2.Vec{X: -0.3, Y: 0.1},
				Weight:     0.6,
				Params:     [4]float64{2, 0, 0, 0},
				Color:      [3]float64{0.9, 0.3, 0.35},
				SetWeights: [xform.SetCount]float64{1, 0.2, 0, 0, 0.1},
			},
			{
				ID:         "t2",
				Type:       xform.SinBend,
				Pos:        v2.Vec{X: 0.35, Y: -0.2},
				Weight:     0.35,
				Params:     [4]float64{3, 0.15, 0, 0},
				Color:      [3]float64{0.3, 0.8, 0.9},
				SetWeights: [xform.SetCount]float64{0.6, 0.4, 0.2, 0.3, 0},
			},
		},
		Master: DefaultMaster(),
	}
}
