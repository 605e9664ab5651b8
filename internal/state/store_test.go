package state

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Yeicor/fractal-ui/internal/coords"
	"github.com/Yeicor/fractal-ui/internal/loop"
	"github.com/Yeicor/fractal-ui/internal/xform"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

func newTestStore() *Store {
	s := NewStore(DefaultScene())
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
	return s
}

func TestInitialVersions(t *testing.T) {
	s := newTestStore()
	snap := s.Snapshot()
	if snap.Versions != (Versions{1, 1, 1, 1, 1, 1, 1}) {
		t.Fatalf("versions %+v", snap.Versions)
	}
	if len(snap.Transforms) != 2 || snap.Transforms[0].ID != "t1" || snap.Transforms[1].ID != "t2" {
		t.Fatalf("transforms %+v", snap.Transforms)
	}
}

func TestVersionBumpsOnlyOnChange(t *testing.T) {
	s := newTestStore()
	s.SetCamera(coords.Camera{Zoom: 1})
	if v := s.Snapshot().Versions.View; v != 1 {
		t.Fatalf("unchanged camera bumped view to %d", v)
	}
	s.SetCamera(coords.Camera{Zoom: 2, Pan: v2.Vec{X: 0.5}})
	if v := s.Snapshot().Versions.View; v != 2 {
		t.Fatalf("view version %d, want 2", v)
	}
	s.SetMaster(func(m *Master) {})
	s.SetLoopMode(loop.Linear)
	snap := s.Snapshot()
	if snap.Versions.Master != 1 || snap.Versions.Loop != 1 {
		t.Fatalf("no-op edits bumped versions: %+v", snap.Versions)
	}
	s.SetMaster(func(m *Master) { m.GlitchEnabled = true })
	if v := s.Snapshot().Versions.Master; v != 2 {
		t.Fatalf("master version %d, want 2", v)
	}
}

func TestBatchBumpsEachGroupOnce(t *testing.T) {
	s := newTestStore()
	s.Batch(func(tx *Tx) {
		tx.SetFractalWeights([xform.SetCount]float64{0.5, 0.5, 0.5, 0.5, 0.5})
		tx.SetJuliaC(v2.Vec{X: 0.1})
		tx.SetZoom(3)
		tx.SetPan(v2.Vec{Y: 1})
		tx.SetSize(10, 10)
	})
	v := s.Snapshot().Versions
	if v.Blend != 2 || v.View != 2 {
		t.Fatalf("blend version %d, view version %d, want 2 and 2", v.Blend, v.View)
	}

	// A change undone within the same batch is no change
	s.Batch(func(tx *Tx) {
		tx.SetZoom(5)
		tx.SetZoom(3)
		id := tx.AddTransform(xform.Default())
		tx.RemoveTransform(id)
	})
	if got := s.Snapshot().Versions; got != v {
		t.Fatalf("versions moved from %+v to %+v", v, got)
	}
}

func TestClamps(t *testing.T) {
	s := newTestStore()
	s.Batch(func(tx *Tx) {
		tx.SetSize(0, -5)
		tx.SetDPR(0)
		tx.SetZoom(100)
		tx.SetLoopPeriod(0)
		tx.SetIterationsBase(-3)
		tx.SetFractalWeight(2, -1)
		tx.SetMultibrotPower(0.2)
	})
	sc := s.Snapshot().Scene
	if sc.View.Width != 1 || sc.View.Height != 1 {
		t.Errorf("size %dx%d", sc.View.Width, sc.View.Height)
	}
	if sc.View.DPR != 1 {
		t.Errorf("dpr %v", sc.View.DPR)
	}
	if sc.View.Zoom != coords.ZoomMax {
		t.Errorf("zoom %v", sc.View.Zoom)
	}
	if sc.Loop.Period != loop.MinPeriod {
		t.Errorf("period %v", sc.Loop.Period)
	}
	if sc.Quality.IterationsBase != 1 {
		t.Errorf("iterations %v", sc.Quality.IterationsBase)
	}
	if sc.Blend.Weights[2] != 0 || sc.Blend.MultibrotPower != 1 {
		t.Errorf("blend %+v", sc.Blend)
	}
}

func TestTransformLifecycle(t *testing.T) {
	s := newTestStore()
	id := s.AddTransform(s.NewTransform())
	if id != "id1" {
		t.Fatalf("id %q", id)
	}
	snap := s.Snapshot()
	if len(snap.Transforms) != 3 || snap.Versions.Transforms != 2 {
		t.Fatalf("after add: %d transforms, version %d", len(snap.Transforms), snap.Versions.Transforms)
	}
	added := snap.Transforms[2]
	for _, c := range added.Color {
		if c < 0.2 || c > 1 {
			t.Errorf("color channel %v out of range", c)
		}
	}
	if added.Type != xform.Translate || added.Weight != 0.25 {
		t.Errorf("defaults %+v", added)
	}

	if !s.UpdateTransform(id, func(tr *xform.Transform) { tr.Weight = 0.9; tr.ID = "hijack" }) {
		t.Fatal("update failed")
	}
	snap = s.Snapshot()
	if snap.Transforms[2].ID != id || snap.Transforms[2].Weight != 0.9 {
		t.Fatalf("update result %+v", snap.Transforms[2])
	}

	if !s.RemoveTransform("t1") || s.RemoveTransform("t1") {
		t.Fatal("remove should succeed exactly once")
	}
	snap = s.Snapshot()
	if len(snap.Transforms) != 2 || snap.Transforms[0].ID != "t2" {
		t.Fatalf("order after remove: %+v", snap.Transforms)
	}
	if s.UpdateTransform("missing", func(*xform.Transform) {}) {
		t.Fatal("update of missing id succeeded")
	}
}

func TestSetTransformsRegeneratesIDs(t *testing.T) {
	s := newTestStore()
	s.Batch(func(tx *Tx) {
		tx.SetTransforms([]xform.Transform{{ID: "a"}, {ID: "a"}, {}})
	})
	got := s.Snapshot().Transforms
	if got[0].ID != "a" || got[1].ID != "id1" || got[2].ID != "id2" {
		t.Fatalf("ids %q %q %q", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := newTestStore()
	snap := s.Snapshot()
	snap.Transforms[0].Weight = 42
	if s.Snapshot().Transforms[0].Weight == 42 {
		t.Fatal("snapshot aliases store memory")
	}
}

func TestTrySnapshotDoesNotBlock(t *testing.T) {
	s := newTestStore()
	locked := make(chan struct{})
	release := make(chan struct{})
	go s.Batch(func(tx *Tx) {
		close(locked)
		<-release
		tx.SetZoom(4)
	})
	<-locked
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, ok := s.TrySnapshot(ctx); ok {
		t.Fatal("snapshot acquired while a writer held the lock")
	}
	close(release)
	snap := s.Snapshot()
	if snap.View.Zoom != 4 {
		t.Fatalf("zoom %v", snap.View.Zoom)
	}
	if _, ok := s.TrySnapshot(context.Background()); !ok {
		t.Fatal("snapshot failed on an idle store")
	}
}

func TestRenderModeRejectsUnknown(t *testing.T) {
	s := newTestStore()
	s.SetRenderMode(RenderMode(7))
	if snap := s.Snapshot(); snap.Mode != Mode2D || snap.Versions.Mode != 1 {
		t.Fatalf("mode %v version %d", snap.Mode, snap.Versions.Mode)
	}
	s.SetRenderMode(Mode3D)
	if snap := s.Snapshot(); snap.Mode != Mode3D || snap.Versions.Mode != 2 {
		t.Fatalf("mode %v version %d", snap.Mode, snap.Versions.Mode)
	}
}
