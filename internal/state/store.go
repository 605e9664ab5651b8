package state

import (
	"context"
	"math"
	"math/rand"
	"slices"

	"github.com/Yeicor/fractal-ui/internal/coords"
	"github.com/Yeicor/fractal-ui/internal/loop"
	"github.com/Yeicor/fractal-ui/internal/xform"
	"github.com/barkimedes/go-deepcopy"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/google/uuid"
	"github.com/subchen/go-trylock/v2"
)

// tryRWLocker is the subset of the trylock mutex the store relies on.
type tryRWLocker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
	TryLock(ctx context.Context) bool
	RTryLock(ctx context.Context) bool
}

// Store owns the scene. Every mutation goes through a Tx so that a batch of changes (a preset import, a drag
// step) is observed by the frame loop either entirely or not at all.
type Store struct {
	lock     tryRWLocker
	scene    Scene
	versions Versions
	newID    func() string
}

// NewStore creates a store holding the given scene. Every group starts at version 1.
func NewStore(scene Scene) *Store {
	s := &Store{
		lock:     trylock.New(),
		versions: Versions{1, 1, 1, 1, 1, 1, 1},
		newID:    uuid.NewString,
	}
	s.scene = deepcopy.MustAnything(scene).(Scene)
	(&Tx{s: &s.scene, newID: s.newID}).normalize()
	return s
}

// Batch runs fn with exclusive access to the scene. Each group whose value differs at the end of the batch gets
// exactly one version bump, however many setters touched it.
func (s *Store) Batch(fn func(tx *Tx)) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.run(fn)
}

// TryBatch is Batch but gives up (returning false) when ctx ends before the lock is acquired.
func (s *Store) TryBatch(ctx context.Context, fn func(tx *Tx)) bool {
	if !s.lock.TryLock(ctx) {
		return false
	}
	defer s.lock.Unlock()
	s.run(fn)
	return true
}

func (s *Store) run(fn func(tx *Tx)) {
	before := s.scene
	before.Transforms = slices.Clone(s.scene.Transforms)
	fn(&Tx{s: &s.scene, newID: s.newID})
	s.versions.bump(&before, &s.scene)
}

// bump moves the counter of every group that differs between before and after.
func (v *Versions) bump(before, after *Scene) {
	if after.View != before.View {
		v.View++
	}
	if after.Loop != before.Loop {
		v.Loop++
	}
	if after.Blend != before.Blend {
		v.Blend++
	}
	if after.Quality != before.Quality {
		v.Quality++
	}
	if after.Mode != before.Mode {
		v.Mode++
	}
	if !slices.Equal(after.Transforms, before.Transforms) {
		v.Transforms++
	}
	if after.Master != before.Master {
		v.Master++
	}
}

// Snapshot returns a deep copy of the scene and its versions.
func (s *Store) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshotLocked()
}

// TrySnapshot is Snapshot without blocking past ctx. The frame loop uses it so that a writer on another goroutine
// can never stall a frame.
func (s *Store) TrySnapshot(ctx context.Context) (Snapshot, bool) {
	if !s.lock.RTryLock(ctx) {
		return Snapshot{}, false
	}
	defer s.lock.RUnlock()
	return s.snapshotLocked(), true
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Scene:    deepcopy.MustAnything(s.scene).(Scene),
		Versions: s.versions,
	}
}

// NewTransform returns the default transform with a random color, ready for AddTransform.
func (s *Store) NewTransform() xform.Transform {
	t := xform.Default()
	for i := range t.Color {
		t.Color[i] = 0.2 + rand.Float64()*0.8
	}
	return t
}

//-----------------------------------------------------------------------------
// Convenience wrappers (one batch each)
//-----------------------------------------------------------------------------

// SetSize resizes the viewport.
func (s *Store) SetSize(w, h int) { s.Batch(func(tx *Tx) { tx.SetSize(w, h) }) }

// SetDPR sets the device pixel ratio.
func (s *Store) SetDPR(dpr float64) { s.Batch(func(tx *Tx) { tx.SetDPR(dpr) }) }

// SetCamera replaces zoom and pan.
func (s *Store) SetCamera(c coords.Camera) { s.Batch(func(tx *Tx) { tx.SetCamera(c) }) }

// SetRenderMode switches between the 2D and 3D programs.
func (s *Store) SetRenderMode(m RenderMode) { s.Batch(func(tx *Tx) { tx.SetRenderMode(m) }) }

// SetQuality selects a quality tier.
func (s *Store) SetQuality(tier string) { s.Batch(func(tx *Tx) { tx.SetQuality(tier) }) }

// SetLoopMode selects the phase curve.
func (s *Store) SetLoopMode(m loop.Mode) { s.Batch(func(tx *Tx) { tx.SetLoopMode(m) }) }

// AddTransform appends t (assigning an ID when empty) and returns its ID.
func (s *Store) AddTransform(t xform.Transform) (id string) {
	s.Batch(func(tx *Tx) { id = tx.AddTransform(t) })
	return id
}

// UpdateTransform edits the transform with the given ID in place.
func (s *Store) UpdateTransform(id string, fn func(t *xform.Transform)) (ok bool) {
	s.Batch(func(tx *Tx) { ok = tx.UpdateTransform(id, fn) })
	return ok
}

// RemoveTransform deletes the transform with the given ID.
func (s *Store) RemoveTransform(id string) (ok bool) {
	s.Batch(func(tx *Tx) { ok = tx.RemoveTransform(id) })
	return ok
}

// SetMaster edits the post-processing settings.
func (s *Store) SetMaster(fn func(m *Master)) { s.Batch(func(tx *Tx) { tx.SetMaster(fn) }) }

//-----------------------------------------------------------------------------
// Tx
//-----------------------------------------------------------------------------

// Tx is the only way to mutate a scene. Setters clamp their input so that the scene invariants hold after every
// call. Versions are settled by the enclosing batch.
type Tx struct {
	s     *Scene
	newID func() string
}

// Scene gives read access to the scene being edited. It must not be retained after the batch ends.
func (tx *Tx) Scene() *Scene { return tx.s }

func finite(x, fallback float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fallback
	}
	return x
}

// SetSize sets the logical viewport size. Non-positive sizes clamp to 1.
func (tx *Tx) SetSize(w, h int) {
	tx.s.View.Width = max(1, w)
	tx.s.View.Height = max(1, h)
}

// SetDPR sets the device pixel ratio; non-positive values become 1.
func (tx *Tx) SetDPR(dpr float64) {
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	tx.s.View.DPR = dpr
}

// SetZoom sets the zoom, clamped to [coords.ZoomMin, coords.ZoomMax].
func (tx *Tx) SetZoom(z float64) {
	tx.s.View.Zoom = coords.ClampZoom(z)
}

// SetPan sets the pan. Pan is unbounded.
func (tx *Tx) SetPan(p v2.Vec) {
	v := &tx.s.View
	v.Pan = v2.Vec{X: finite(p.X, v.Pan.X), Y: finite(p.Y, v.Pan.Y)}
}

// SetCamera sets zoom and pan together.
func (tx *Tx) SetCamera(c coords.Camera) {
	tx.SetZoom(c.Zoom)
	tx.SetPan(c.Pan)
}

// SetLoopPeriod sets the loop period, never below loop.MinPeriod.
func (tx *Tx) SetLoopPeriod(p float64) {
	tx.s.Loop.Period = math.Max(loop.MinPeriod, finite(p, tx.s.Loop.Period))
}

// SetTimeScale sets the wall-clock multiplier.
func (tx *Tx) SetTimeScale(ts float64) {
	tx.s.Loop.TimeScale = finite(ts, tx.s.Loop.TimeScale)
}

// SetLoopMode sets the phase curve.
func (tx *Tx) SetLoopMode(m loop.Mode) {
	tx.s.Loop.Mode = m
}

// SetIterationsBase sets the iteration count at 100% quality (at least 1).
func (tx *Tx) SetIterationsBase(n int) {
	tx.s.Quality.IterationsBase = max(1, n)
}

// SetQuality selects the quality tier.
func (tx *Tx) SetQuality(tier string) {
	tx.s.Quality.Tier = tier
}

// SetRenderMode selects the 2D or 3D program.
func (tx *Tx) SetRenderMode(m RenderMode) {
	if m != Mode2D && m != Mode3D {
		return
	}
	tx.s.Mode = m
}

// SetFractalWeight sets the global weight of set i, clamped to >= 0.
func (tx *Tx) SetFractalWeight(i int, w float64) {
	if i < 0 || i >= xform.SetCount {
		return
	}
	tx.s.Blend.Weights[i] = math.Max(0, finite(w, 0))
}

// SetFractalWeights sets all five global weights.
func (tx *Tx) SetFractalWeights(ws [xform.SetCount]float64) {
	for i, w := range ws {
		tx.SetFractalWeight(i, w)
	}
}

// SetJuliaC sets the julia seed.
func (tx *Tx) SetJuliaC(c v2.Vec) {
	b := &tx.s.Blend
	b.JuliaC = v2.Vec{X: finite(c.X, b.JuliaC.X), Y: finite(c.Y, b.JuliaC.Y)}
}

// SetMultibrotPower sets the multibrot exponent, at least 1.
func (tx *Tx) SetMultibrotPower(p float64) {
	tx.s.Blend.MultibrotPower = math.Max(1, finite(p, 1))
}

// SetPhoenixP sets the phoenix constant.
func (tx *Tx) SetPhoenixP(p float64) {
	tx.s.Blend.PhoenixP = finite(p, tx.s.Blend.PhoenixP)
}

// SetUsePerTransformWeights toggles per-transform set weights.
func (tx *Tx) SetUsePerTransformWeights(on bool) {
	tx.s.Blend.UsePerTransformWeights = on
}

// AddTransform appends t and returns its ID, generating one when t.ID is empty or already taken.
func (tx *Tx) AddTransform(t xform.Transform) string {
	if t.ID == "" || xform.Index(tx.s.Transforms, t.ID) >= 0 {
		t.ID = tx.newID()
	}
	tx.s.Transforms = append(tx.s.Transforms, t)
	return t.ID
}

// UpdateTransform edits the transform with the given ID. The ID itself cannot be changed.
func (tx *Tx) UpdateTransform(id string, fn func(t *xform.Transform)) bool {
	i := xform.Index(tx.s.Transforms, id)
	if i < 0 {
		return false
	}
	fn(&tx.s.Transforms[i])
	tx.s.Transforms[i].ID = id
	return true
}

// RemoveTransform deletes the transform with the given ID.
func (tx *Tx) RemoveTransform(id string) bool {
	i := xform.Index(tx.s.Transforms, id)
	if i < 0 {
		return false
	}
	tx.s.Transforms = slices.Delete(tx.s.Transforms, i, i+1)
	return true
}

// SetTransforms replaces the whole list. Missing or duplicate IDs are regenerated.
func (tx *Tx) SetTransforms(list []xform.Transform) {
	out := make([]xform.Transform, 0, len(list))
	for _, t := range list {
		if t.ID == "" || xform.Index(out, t.ID) >= 0 {
			t.ID = tx.newID()
		}
		out = append(out, t)
	}
	tx.s.Transforms = out
}

// SetMaster edits the post-processing settings.
func (tx *Tx) SetMaster(fn func(m *Master)) {
	fn(&tx.s.Master)
}

// normalize re-applies every clamp to the current values.
func (tx *Tx) normalize() {
	s := *tx.s
	tx.SetSize(s.View.Width, s.View.Height)
	tx.SetDPR(s.View.DPR)
	tx.SetZoom(s.View.Zoom)
	tx.SetLoopPeriod(s.Loop.Period)
	tx.SetIterationsBase(s.Quality.IterationsBase)
	tx.SetFractalWeights(s.Blend.Weights)
	tx.SetMultibrotPower(s.Blend.MultibrotPower)
	tx.SetTransforms(s.Transforms)
}
