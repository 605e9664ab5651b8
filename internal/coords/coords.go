// Package coords maps between pixel space (origin top-left, Y down) and domain space (origin center, Y up, X
// scaled by the aspect ratio so that ±1 spans the visible frame vertically whatever the window shape).
package coords

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

const (
	// ZoomMin and ZoomMax bound every zoom value the camera can hold.
	ZoomMin = 0.1
	ZoomMax = 8.0
	// WheelSensitivity converts a wheel delta (in browser-like pixel units) to an exponential zoom factor.
	WheelSensitivity = 0.0015
	// HandleLimit bounds dragged transform positions on each axis.
	HandleLimit = 2.0
)

// dims guards degenerate viewports: a non-positive dimension is treated as 1.
func dims(w, h float64) (float64, float64) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

// Aspect returns w/h with degenerate sizes guarded.
func Aspect(w, h float64) float64 {
	w, h = dims(w, h)
	return w / h
}

// ScreenToNorm converts a pixel position to domain space (ignoring the camera).
func ScreenToNorm(x, y, w, h float64) v2.Vec {
	w, h = dims(w, h)
	aspect := w / h
	return v2.Vec{
		X: (x/w*2 - 1) * aspect,
		Y: -(y/h*2 - 1),
	}
}

// NormToScreen is the exact inverse of ScreenToNorm for the same w and h.
func NormToScreen(nx, ny, w, h float64) v2.Vec {
	w, h = dims(w, h)
	aspect := w / h
	return v2.Vec{
		X: (nx/aspect + 1) * 0.5 * w,
		Y: (-ny + 1) * 0.5 * h,
	}
}

// Camera is the zoom/pan pair applied on top of ScreenToNorm by the fractal shader.
type Camera struct {
	Zoom float64
	Pan  v2.Vec
}

// ClampZoom forces z into [ZoomMin, ZoomMax]. NaN maps to 1.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(ZoomMin, math.Min(ZoomMax, z))
}

// DomainAt returns the domain point rendered under pixel (x, y): ScreenToNorm(x, y)*zoom + pan.
func (c Camera) DomainAt(x, y, w, h float64) v2.Vec {
	return ScreenToNorm(x, y, w, h).MulScalar(c.Zoom).Add(c.Pan)
}

// ZoomAt applies one wheel step of delta d at the cursor (x, y), keeping the domain point under the cursor fixed.
// Positive d zooms toward a narrower domain span (like a browser wheel scrolling down).
func (c Camera) ZoomAt(x, y, w, h, d float64) Camera {
	k := math.Exp(-d * WheelSensitivity)
	zoom := ClampZoom(c.Zoom * k)
	if c.Zoom != 0 {
		k = zoom / c.Zoom // effective factor once the clamp engaged
	}
	s := c.DomainAt(x, y, w, h)
	return Camera{
		Zoom: zoom,
		Pan:  s.MulScalar(1 - k).Add(c.Pan.MulScalar(k)),
	}
}

// Drag tracks a pointer drag that pans the camera.
type Drag struct {
	active   bool
	pan0     v2.Vec
	pointer0 v2.Vec
}

// Begin captures the pan and pointer position at drag start.
func (d *Drag) Begin(pan, pointer v2.Vec) {
	d.active = true
	d.pan0 = pan
	d.pointer0 = pointer
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }

// End stops the drag.
func (d *Drag) End() { d.active = false }

// Move returns the pan for the current pointer position: pan0 + (dx/w, -dy/h).
func (d *Drag) Move(pointer v2.Vec, w, h float64) v2.Vec {
	w, h = dims(w, h)
	delta := pointer.Sub(d.pointer0)
	return d.pan0.Add(v2.Vec{X: delta.X / w, Y: -delta.Y / h})
}

// HandlePosition converts a pointer position to a transform position clamped to ±HandleLimit.
func HandlePosition(x, y, w, h float64) v2.Vec {
	p := ScreenToNorm(x, y, w, h)
	return v2.Vec{
		X: math.Max(-HandleLimit, math.Min(HandleLimit, p.X)),
		Y: math.Max(-HandleLimit, math.Min(HandleLimit, p.Y)),
	}
}
