// Package xform defines transform influencers and their fixed-layout GPU encoding.
package xform

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Type is the closed set of transform operations. The integer value of each Type is its wire id in the encoded
// buffer and must never be reordered: append new types at the end.
type Type int

const (
	Translate Type = iota
	Rotate
	Swirl
	SinBend
	Star
	Diamond
	Heart
	Explode
	MirrorX
	MirrorY
)

var typeNames = [...]string{
	Translate: "translate",
	Rotate:    "rotate",
	Swirl:     "swirl",
	SinBend:   "sinbend",
	Star:      "star",
	Diamond:   "diamond",
	Heart:     "heart",
	Explode:   "explode",
	MirrorX:   "mirrorX",
	MirrorY:   "mirrorY",
}

// Types lists every known type in id order.
var Types = []Type{Translate, Rotate, Swirl, SinBend, Star, Diamond, Heart, Explode, MirrorX, MirrorY}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	return t >= 0 && int(t) < len(typeNames)
}

// ID returns the encoding id of t. Unknown types encode as Translate.
func (t Type) ID() int {
	if !t.Valid() {
		return int(Translate)
	}
	return int(t)
}

// ParseType returns the type with the given name.
func ParseType(s string) (Type, bool) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), true
		}
	}
	return Translate, false
}

// SetCount is the number of fractal/geometry sets a transform blends over.
const SetCount = 5

// Transform is a user-placed spatial influencer.
type Transform struct {
	ID         string
	Type       Type
	Pos        v2.Vec // domain space
	Weight     float64
	Params     [4]float64
	Color      [3]float64
	SetWeights [SetCount]float64
}

// Default returns the transform created by a plain "add" action, minus its ID and color.
func Default() Transform {
	return Transform{
		Type:       Translate,
		Weight:     0.25,
		SetWeights: [SetCount]float64{1, 0, 0, 0, 0},
	}
}

// Index returns the position of the transform with the given id, or -1.
func Index(list []Transform, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
