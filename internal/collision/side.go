package collision

import "github.com/vovakirdan/isoworld/internal/core"

// Side names the face of the other box that was hit, as seen by the mover.
type Side int

const (
	SideFront Side = iota
	SideBack
	SideLeft
	SideRight
	SideTop
	SideBottom
	SideCorner
)

var sideNames = [...]string{"front", "back", "left", "right", "top", "bottom", "corner"}

// String returns the lowercase side name.
func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return "unknown"
	}
	return sideNames[s]
}

// SideFromNormal maps a hit normal to a side. Only an exact unit component
// selects a face; anything else is a corner.
func SideFromNormal(n core.Vec3) Side {
	switch {
	case n[0] == -1:
		return SideLeft
	case n[0] == 1:
		return SideRight
	case n[1] == -1:
		return SideFront
	case n[1] == 1:
		return SideBack
	case n[2] == 1:
		return SideTop
	case n[2] == -1:
		return SideBottom
	default:
		return SideCorner
	}
}

// Axis returns the axis a side's normal points along. Corner reports false.
func (s Side) Axis() (core.Axis, bool) {
	switch s {
	case SideLeft, SideRight:
		return core.AxisX, true
	case SideFront, SideBack:
		return core.AxisY, true
	case SideTop, SideBottom:
		return core.AxisZ, true
	default:
		return 0, false
	}
}
