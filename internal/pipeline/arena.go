package pipeline

// Handle refers to a value stored in an Arena. The zero Handle never resolves.
type Handle struct {
	index, gen uint32
}

// Valid reports whether h was ever issued. It says nothing about whether it is still live.
func (h Handle) Valid() bool { return h.gen != 0 }

type slot[T any] struct {
	val  T
	gen  uint32
	used bool
}

// Arena stores values behind generation-checked handles: once a value is removed, every handle to it stops
// resolving, even after its slot is reused.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[idx]
	s.gen++
	s.val, s.used = v, true
	a.live++
	return Handle{index: idx, gen: s.gen}
}

// Get returns the value behind h, if h is still live.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	if s := a.lookup(h); s != nil {
		return s.val, true
	}
	var zero T
	return zero, false
}

// Remove frees the slot behind h and returns its value. Removing a stale handle is a no-op.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	s := a.lookup(h)
	if s == nil {
		return zero, false
	}
	v := s.val
	s.val, s.used = zero, false
	a.free = append(a.free, h.index)
	a.live--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.live }

func (a *Arena[T]) lookup(h Handle) *slot[T] {
	if !h.Valid() || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if !s.used || s.gen != h.gen {
		return nil
	}
	return s
}

// resources owns every GPU object the pipeline creates. All releases go through it, so a released object is
// also unreachable through any handle still held.
type resources struct {
	dev      Device
	programs Arena[Program]
	images   Arena[Image]
}

func (r *resources) compile(name string, src []byte) (Handle, error) {
	p, err := r.dev.CompileProgram(name, src)
	if err != nil {
		return Handle{}, err
	}
	return r.programs.Insert(p), nil
}

func (r *resources) newImage(w, h int) Handle {
	return r.images.Insert(r.dev.NewImage(w, h))
}

func (r *resources) program(h Handle) (Program, bool) { return r.programs.Get(h) }

func (r *resources) image(h Handle) (Image, bool) { return r.images.Get(h) }

// releaseProgram releases the program behind *h and zeroes the handle.
func (r *resources) releaseProgram(h *Handle) {
	if p, ok := r.programs.Remove(*h); ok {
		r.dev.ReleaseProgram(p)
	}
	*h = Handle{}
}

// releaseImage releases the image behind *h and zeroes the handle.
func (r *resources) releaseImage(h *Handle) {
	if img, ok := r.images.Remove(*h); ok {
		r.dev.ReleaseImage(img)
	}
	*h = Handle{}
}
