package pipeline

import "testing"

func TestArenaGenerations(t *testing.T) {
	var a Arena[string]
	h1 := a.Insert("a")
	if v, ok := a.Get(h1); !ok || v != "a" {
		t.Fatalf("get %q %v", v, ok)
	}
	if _, ok := a.Remove(h1); !ok {
		t.Fatal("remove failed")
	}
	h2 := a.Insert("b")
	if h2.index != h1.index {
		t.Fatalf("slot not reused: %v %v", h1, h2)
	}
	if _, ok := a.Get(h1); ok {
		t.Fatal("stale handle resolved")
	}
	if _, ok := a.Remove(h1); ok {
		t.Fatal("stale handle removed")
	}
	if v, _ := a.Get(h2); v != "b" || a.Len() != 1 {
		t.Fatalf("get %q, len %d", v, a.Len())
	}
	if _, ok := a.Get(Handle{}); ok {
		t.Fatal("zero handle resolved")
	}
}

func TestQuality(t *testing.T) {
	for _, c := range []struct {
		tier string
		want int
	}{
		{"20%", 28},
		{"50%", 70},
		{"100%", 140},
		{"200%", 280},
		{"1000%", 1400},
		{"2000%", 2800},
		{"bogus", 140},
	} {
		if got := Iterations(140, c.tier); got != c.want {
			t.Errorf("%s: %d, want %d", c.tier, got, c.want)
		}
	}
	if Iterations(1, "20%") != 1 {
		t.Error("iterations must stay positive")
	}
	if NextTier("2000%") != "20%" || NextTier("bogus") != "200%" {
		t.Error("tier cycling")
	}
}

func TestTargetSize(t *testing.T) {
	for _, c := range []struct {
		w, h   int
		dpr    float64
		tw, th int
	}{
		{100, 50, 1, 100, 50},
		{100, 50, 1.5, 150, 75},
		{101, 51, 1.5, 151, 76},
		{0, 0, 2, 1, 1},
		{10, 10, 0, 10, 10},
	} {
		if tw, th := TargetSize(c.w, c.h, c.dpr); tw != c.tw || th != c.th {
			t.Errorf("%dx%d@%v: %dx%d", c.w, c.h, c.dpr, tw, th)
		}
	}
}
