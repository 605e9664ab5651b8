// Package loop shapes elapsed time into a periodic animation phase.
package loop

import (
	"fmt"
	"math"
)

// MinPeriod is the smallest period used when computing a phase.
const MinPeriod = 0.001

// Mode selects the shape of the phase curve within one period.
type Mode int

const (
	Linear Mode = iota
	PingPong
	Ease
	Wavy
)

var modeNames = [...]string{
	Linear:   "linear",
	PingPong: "pingpong",
	Ease:     "ease",
	Wavy:     "wavy",
}

// Modes lists every mode in cycling order.
var Modes = []Mode{Linear, PingPong, Ease, Wavy}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode returns the mode with the given name.
func ParseMode(s string) (Mode, bool) {
	for m, name := range modeNames {
		if name == s {
			return Mode(m), true
		}
	}
	return Linear, false
}

// Next returns the mode following m in Modes. An unknown mode is followed by Linear.
func (m Mode) Next() Mode {
	if m < 0 || int(m) >= len(modeNames) {
		return Linear
	}
	return Mode((int(m) + 1) % len(modeNames))
}

// fract is a floored modulo into [0, 1).
func fract(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 { // rounding of tiny negatives
		f = 0
	}
	return f
}

// Phase maps elapsed seconds t to a value in [0, 1) shaped by mode. Wavy may leave [0, 1) slightly before its
// own wrap.
func Phase(t, period float64, mode Mode) float64 {
	p := fract(t / math.Max(period, MinPeriod))
	switch mode {
	case PingPong:
		return 1 - math.Abs(2*p-1)
	case Ease:
		return p * p * (3 - 2*p)
	case Wavy:
		return fract(p + 0.1*math.Sin(2*math.Pi*p))
	default:
		return p
	}
}

// AnimationTime is the time fed to the fractal program: phase*period. The result is exactly periodic in t.
func AnimationTime(t, period float64, mode Mode) float64 {
	return Phase(t, period, mode) * math.Max(period, MinPeriod)
}
