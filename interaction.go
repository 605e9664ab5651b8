package ui

import (
	"errors"
	"math"

	"github.com/Yeicor/fractal-ui/internal/coords"
	"github.com/Yeicor/fractal-ui/internal/pipeline"
	"github.com/Yeicor/fractal-ui/internal/preset"
	"github.com/Yeicor/fractal-ui/internal/state"
	"github.com/Yeicor/fractal-ui/internal/xform"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleRadius is the pick distance of a transform handle, in pixels.
const handleRadius = 10

type action int

const (
	actToggleMode action = iota
	actCycleQuality
	actCycleLoop
	actAddTransform
	actRemoveTransform
	actToggleHUD
	actResetCamera
	actCopyScene
	actCopyMaster
	actPasteScene
	actPasteMaster
	actSaveScene
	actSaveMaster
	actLoadScene
	actLoadMaster
	actCapture
)

// input is one update's worth of polled input, so that handling can be driven without a window.
type input struct {
	cursor      v2.Vec
	wheel       float64 // Browser-like delta: positive scrolls down (zooms out)
	left        bool    // Left button held
	leftPressed bool    // Left button went down this update
	alt         bool
	actions     []action
}

func pollInput() input {
	cx, cy := ebiten.CursorPosition()
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 { // Override cursor with touch if available
		cx, cy = ebiten.TouchPosition(ids[0])
	}
	_, yoff := ebiten.Wheel()
	in := input{
		cursor: v2.Vec{X: float64(cx), Y: float64(cy)},
		wheel:  -yoff * 100,
		left: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) ||
			len(ebiten.AppendTouchIDs(nil)) > 0,
		leftPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
			len(inpututil.AppendJustPressedTouchIDs(nil)) > 0,
		alt: ebiten.IsKeyPressed(ebiten.KeyAlt),
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	pick := func(scene, master action) action {
		if shift {
			return master
		}
		return scene
	}
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		switch {
		case ctrl && k == ebiten.KeyC:
			in.actions = append(in.actions, pick(actCopyScene, actCopyMaster))
		case ctrl && k == ebiten.KeyV:
			in.actions = append(in.actions, pick(actPasteScene, actPasteMaster))
		case ctrl && k == ebiten.KeyS:
			in.actions = append(in.actions, pick(actSaveScene, actSaveMaster))
		case ctrl && k == ebiten.KeyO:
			in.actions = append(in.actions, pick(actLoadScene, actLoadMaster))
		case ctrl:
		case k == ebiten.KeyM:
			in.actions = append(in.actions, actToggleMode)
		case k == ebiten.KeyQ:
			in.actions = append(in.actions, actCycleQuality)
		case k == ebiten.KeyL:
			in.actions = append(in.actions, actCycleLoop)
		case k == ebiten.KeyT:
			in.actions = append(in.actions, actAddTransform)
		case k == ebiten.KeyDelete || k == ebiten.KeyBackspace:
			in.actions = append(in.actions, actRemoveTransform)
		case k == ebiten.KeyH || k == ebiten.KeyBackquote:
			in.actions = append(in.actions, actToggleHUD)
		case k == ebiten.KeyR:
			in.actions = append(in.actions, actResetCamera)
		case k == ebiten.KeyF12:
			in.actions = append(in.actions, actCapture)
		}
	}
	return in
}

// handleInput applies one update's input to the store. Reading the scene never waits; writes do, but only for a
// batch already in progress.
func (r *Renderer) handleInput(in input) {
	snap := r.latest()
	w, h := float64(snap.View.Width), float64(snap.View.Height)

	// Zooming
	if in.wheel != 0 {
		r.store.SetCamera(snap.View.Camera().ZoomAt(in.cursor.X, in.cursor.Y, w, h, in.wheel))
	}

	// Panning (Alt+drag) and handle dragging (plain drag)
	if in.leftPressed {
		if in.alt {
			r.pan.Begin(snap.View.Pan, in.cursor)
		} else if r.hudVisible {
			r.draggingID = pickHandle(snap.Transforms, in.cursor, w, h)
			if r.draggingID != "" {
				r.selectedID = r.draggingID
			}
		}
	}
	if !in.left {
		r.pan.End()
		r.draggingID = ""
	}
	if r.pan.Active() {
		pan := r.pan.Move(in.cursor, w, h)
		r.store.Batch(func(tx *state.Tx) { tx.SetPan(pan) })
	} else if r.draggingID != "" {
		pos := coords.HandlePosition(in.cursor.X, in.cursor.Y, w, h)
		if !r.store.UpdateTransform(r.draggingID, func(t *xform.Transform) { t.Pos = pos }) {
			r.draggingID = "" // Removed meanwhile (e.g. by a preset reload)
		}
	}

	for _, a := range in.actions {
		r.apply(a, in, snap)
	}
}

func (r *Renderer) apply(a action, in input, snap state.Snapshot) {
	w, h := float64(snap.View.Width), float64(snap.View.Height)
	switch a {
	case actToggleMode:
		next := state.Mode3D
		if snap.Mode == state.Mode3D {
			next = state.Mode2D
		}
		r.store.SetRenderMode(next)
		if next == state.Mode3D {
			r.setStatus("3D mode: raymarching is heavier, lower the quality if it stutters")
		}
	case actCycleQuality:
		r.store.SetQuality(pipeline.NextTier(snap.Quality.Tier))
	case actCycleLoop:
		r.store.SetLoopMode(snap.Loop.Mode.Next())
	case actAddTransform:
		t := r.store.NewTransform()
		t.Pos = coords.HandlePosition(in.cursor.X, in.cursor.Y, w, h)
		r.selectedID = r.store.AddTransform(t)
	case actRemoveTransform:
		id := r.selectedID
		if xform.Index(snap.Transforms, id) < 0 && len(snap.Transforms) > 0 {
			id = snap.Transforms[len(snap.Transforms)-1].ID
		}
		if id != "" && r.store.RemoveTransform(id) {
			r.selectedID, r.draggingID = "", ""
		}
	case actToggleHUD:
		r.hudVisible = !r.hudVisible
	case actResetCamera:
		r.store.SetCamera(coords.Camera{Zoom: 1})
	case actCopyScene:
		r.report("Scene copied", r.CopyScene())
	case actCopyMaster:
		r.report("Master copied", r.CopyMaster())
	case actPasteScene:
		r.report("Scene pasted", r.PasteScene())
	case actPasteMaster:
		r.report("Master pasted", r.PasteMaster())
	case actSaveScene:
		path := r.presetPath(sceneFile)
		r.report("Saved "+path, r.ExportSceneFile(path))
	case actSaveMaster:
		path := r.presetPath(masterFile)
		r.report("Saved "+path, r.ExportMasterFile(path))
	case actLoadScene:
		path := r.presetPath(sceneFile)
		r.report("Loaded "+path, r.ImportSceneFile(path))
	case actLoadMaster:
		path := r.presetPath(masterFile)
		r.report("Loaded "+path, r.ImportMasterFile(path))
	case actCapture:
		r.requestCapture()
	}
}

// report shows the outcome of a preset action. An unrecognized version is a silent no-op for the user.
func (r *Renderer) report(ok string, err error) {
	switch {
	case err == nil:
		r.setStatus(ok)
	case errors.Is(err, preset.ErrUnrecognizedVersion):
		logger().Debug("preset ignored", "err", err)
	default:
		logger().Warn("preset action failed", "err", err)
		r.setStatus(err.Error())
	}
}

// pickHandle returns the ID of the topmost transform whose handle is under the cursor.
func pickHandle(list []xform.Transform, cursor v2.Vec, w, h float64) string {
	for i := len(list) - 1; i >= 0; i-- {
		p := coords.NormToScreen(list[i].Pos.X, list[i].Pos.Y, w, h)
		if math.Hypot(p.X-cursor.X, p.Y-cursor.Y) <= handleRadius {
			return list[i].ID
		}
	}
	return ""
}
