package preset

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/reflectwalk"
)

// validate walks a decoded document and enforces the `preset:"len=N"` tags placed on its slice fields. JSON arrays
// decode into slices of any length, so this is where `"pan": [1]` is caught.
func validate(doc any) error {
	return reflectwalk.Walk(doc, &lengthWalker{})
}

// lengthWalker tracks enough of its position to produce errors like "transforms[3].pos: ...".
type lengthWalker struct {
	depth int    // Struct nesting level
	outer string // Last top-level field entered
	elem  int    // Last slice element index entered
}

func (w *lengthWalker) Struct(reflect.Value) error { return nil }

func (w *lengthWalker) StructField(f reflect.StructField, v reflect.Value) error {
	name := jsonName(f)
	if w.depth == 1 {
		w.outer = name
	}
	want, ok := lengthTag(f)
	if !ok {
		return nil
	}
	v = reflect.Indirect(v)
	if !v.IsValid() || v.Kind() != reflect.Slice || v.IsNil() {
		return nil // Absent
	}
	if v.Len() != want {
		if w.depth > 1 {
			name = fmt.Sprintf("%s[%d].%s", w.outer, w.elem, name)
		}
		return fmt.Errorf("%s: expected %d elements, got %d", name, want, v.Len())
	}
	return nil
}

func (w *lengthWalker) Slice(reflect.Value) error { return nil }

func (w *lengthWalker) SliceElem(i int, _ reflect.Value) error {
	w.elem = i
	return nil
}

func (w *lengthWalker) Enter(l reflectwalk.Location) error {
	if l == reflectwalk.Struct {
		w.depth++
	}
	return nil
}

func (w *lengthWalker) Exit(l reflectwalk.Location) error {
	if l == reflectwalk.Struct {
		w.depth--
	}
	return nil
}

func jsonName(f reflect.StructField) string {
	if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" {
		return tag
	}
	return f.Name
}

func lengthTag(f reflect.StructField) (int, bool) {
	n, found := strings.CutPrefix(f.Tag.Get("preset"), "len=")
	if !found {
		return 0, false
	}
	want, err := strconv.Atoi(n)
	if err != nil {
		return 0, false
	}
	return want, true
}
