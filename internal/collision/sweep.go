// Package collision implements swept AABB tests and the per-frame collision
// query engine used by physics and gameplay systems.
package collision

import (
	"math"

	"github.com/vovakirdan/isoworld/internal/core"
)

// Sweep is the result of a swept test: the normalized time of impact and
// the contact normal pointing back against the mover's travel.
type Sweep struct {
	Time   float64
	Normal core.Vec3
}

// SweepTest moves box a by delta against the stationary box b and reports
// the earliest time in [0, 1] at which they touch.
//
// A stationary axis only permits a hit when the boxes strictly overlap on
// it, so sliding flush along a surface is not a contact. A moving axis
// enters on touch.
func SweepTest(a, b core.Box, delta core.Vec3) (Sweep, bool) {
	var entry, exit [3]float64

	for i := 0; i < 3; i++ {
		d := delta[i]
		switch {
		case d == 0:
			if !a.OverlapsOn(b, core.Axis(i)) {
				return Sweep{}, false
			}
			entry[i] = math.Inf(-1)
			exit[i] = math.Inf(1)
		case d > 0:
			entry[i] = (b.Min[i] - a.Max[i]) / d
			exit[i] = (b.Max[i] - a.Min[i]) / d
		default:
			entry[i] = (a.Min[i] - b.Max[i]) / -d
			exit[i] = (a.Max[i] - b.Min[i]) / -d
		}
		// Flush contact along the travel direction reads as t=0.
		if entry[i] < 0 && entry[i]*math.Abs(d) > -core.Epsilon {
			entry[i] = 0
		}
	}

	maxEntry := math.Max(entry[0], math.Max(entry[1], entry[2]))
	minExit := math.Min(exit[0], math.Min(exit[1], exit[2]))

	if maxEntry > minExit {
		return Sweep{}, false
	}
	if maxEntry < 0 || maxEntry > 1 {
		return Sweep{}, false
	}

	var axis int
	switch {
	case entry[0] >= entry[1] && entry[0] >= entry[2]:
		axis = 0
	case entry[1] >= entry[2]:
		axis = 1
	default:
		axis = 2
	}

	var normal core.Vec3
	if delta[axis] > 0 {
		normal[axis] = -1
	} else {
		normal[axis] = 1
	}
	return Sweep{Time: maxEntry, Normal: normal}, true
}
