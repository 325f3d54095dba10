// Package core provides fundamental types and utilities for the engine.
// It contains no UI dependencies (especially no Bubble Tea) to keep simulation
// logic pure and testable.
package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space vector. Z points up; X and Y span the ground plane.
type Vec3 = mgl64.Vec3

// V3 is shorthand for building a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Epsilon absorbs float drift when boxes sit flush against each other.
const Epsilon = 1e-9

// Axis indexes a Vec3 component.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// Box is an immutable axis-aligned bounding box in world space.
// Min is componentwise <= Max.
type Box struct {
	Min Vec3
	Max Vec3
}

// BoxFromMinMax builds a box from two corners in any order.
func BoxFromMinMax(a, b Vec3) Box {
	return Box{
		Min: Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// BoxAt builds a box with its minimum corner at pos and the given size.
func BoxAt(pos, size Vec3) Box {
	return BoxFromMinMax(pos, pos.Add(size))
}

// Pos returns the center of the box.
func (b Box) Pos() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents.
func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether the point lies inside the box, bounds included.
func (b Box) Contains(p Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether two boxes overlap or touch on all three axes.
// Touching counts so that a swept hit at t=1 is always inside the
// expanded path box.
func (b Box) Intersects(other Box) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < other.Min[i] || other.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

// OverlapsOn reports strict overlap on a single axis. Boxes that only
// touch on that axis, within Epsilon, do not overlap.
func (b Box) OverlapsOn(other Box, axis Axis) bool {
	return b.Min[axis] < other.Max[axis]-Epsilon && b.Max[axis] > other.Min[axis]+Epsilon
}

// Expand returns the box stretched by a signed displacement: positive
// deltas grow the max side, negative deltas grow the min side.
func (b Box) Expand(dx, dy, dz float64) Box {
	out := b
	for i, d := range [3]float64{dx, dy, dz} {
		if d < 0 {
			out.Min[i] += d
		} else {
			out.Max[i] += d
		}
	}
	return out
}

// Dst returns the center-to-center distance between two boxes.
func (b Box) Dst(other Box) float64 {
	return b.Pos().Sub(other.Pos()).Len()
}

// Face is one axis-aligned side of a box: the plane Axis = Coord,
// bounded by Min/Max on the other two axes.
type Face struct {
	Axis   Axis
	Coord  float64
	Normal float64 // -1 for the min side, +1 for the max side
	Min    Vec3
	Max    Vec3
}

// Faces returns the six bounding rectangles of the box.
func (b Box) Faces() [6]Face {
	var faces [6]Face
	for i := 0; i < 3; i++ {
		lo, hi := b.Min, b.Max
		lo[i], hi[i] = b.Min[i], b.Min[i]
		faces[i*2] = Face{Axis: Axis(i), Coord: b.Min[i], Normal: -1, Min: lo, Max: hi}

		lo, hi = b.Min, b.Max
		lo[i], hi[i] = b.Max[i], b.Max[i]
		faces[i*2+1] = Face{Axis: Axis(i), Coord: b.Max[i], Normal: 1, Min: lo, Max: hi}
	}
	return faces
}

// Segments returns the twelve edges of the box.
func (b Box) Segments() [12]Segment {
	c := b.Corners()
	return [12]Segment{
		// bottom ring
		{c[0], c[1]}, {c[1], c[3]}, {c[3], c[2]}, {c[2], c[0]},
		// top ring
		{c[4], c[5]}, {c[5], c[7]}, {c[7], c[6]}, {c[6], c[4]},
		// pillars
		{c[0], c[4]}, {c[1], c[5]}, {c[2], c[6]}, {c[3], c[7]},
	}
}

// Corners returns the eight corners. Bit 0 selects max X, bit 1 max Y,
// bit 2 max Z.
func (b Box) Corners() [8]Vec3 {
	var out [8]Vec3
	for i := range out {
		p := b.Min
		if i&1 != 0 {
			p[0] = b.Max[0]
		}
		if i&2 != 0 {
			p[1] = b.Max[1]
		}
		if i&4 != 0 {
			p[2] = b.Max[2]
		}
		out[i] = p
	}
	return out
}

// Segment is a line segment between two world points.
type Segment struct {
	A, B Vec3
}

// Len returns the segment length.
func (s Segment) Len() float64 {
	return s.B.Sub(s.A).Len()
}

// At returns the point at parameter t (0 = A, 1 = B).
func (s Segment) At(t float64) Vec3 {
	return s.A.Add(s.B.Sub(s.A).Mul(t))
}

// Bounds returns the smallest box containing the segment.
func (s Segment) Bounds() Box {
	return BoxFromMinMax(s.A, s.B)
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// CeilAway rounds away from zero: 0.2 -> 1, -0.2 -> -1, 0 -> 0.
func CeilAway(v float64) float64 {
	return Sign(v) * math.Ceil(math.Abs(v))
}
