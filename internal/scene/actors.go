package scene

import (
	"slices"
	"strings"

	"github.com/vovakirdan/isoworld/internal/collision"
	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/world"
)

// groundProbe is how far below the feet the grounded check looks.
const groundProbe = 0.05

// guard walks along one axis and turns around after bumping into
// something on that axis during the previous frame.
type guard struct {
	obj   *world.Object
	axis  core.Axis
	dir   float64
	speed float64
	sight float64
}

// platform shuttles a kinematic actor between two coordinates.
type platform struct {
	obj   *world.Object
	axis  core.Axis
	from  float64
	to    float64
	speed float64
	dir   float64
}

func (p *platform) update() {
	body, ok := p.obj.Body()
	if !ok {
		return
	}
	pos := p.obj.Position()[p.axis]
	switch {
	case pos >= p.to:
		p.dir = -1
	case pos <= p.from:
		p.dir = 1
	}
	body.Velocity[p.axis] = p.dir * p.speed
}

// controlPlayer turns input into the player's horizontal velocity and
// jumps when standing on something.
func (g *Game) controlPlayer(in core.InputFrame) {
	if g.player == nil {
		return
	}
	body, ok := g.player.Body()
	if !ok {
		return
	}

	x, y := in.Direction()
	body.Velocity[0] = x * g.cfg.Physics.WalkSpeed
	body.Velocity[1] = y * g.cfg.Physics.WalkSpeed

	if in.Has(core.ActionJump) && g.grounded(g.player) {
		body.Velocity[2] = g.cfg.Physics.JumpSpeed
	}
}

// grounded probes just below the actor's feet for anything solid.
func (g *Game) grounded(o *world.Object) bool {
	box, ok := o.CollisionBox()
	if !ok {
		return false
	}
	feet := box.Pos()
	feet[2] = box.Min[2] - groundProbe
	for _, hit := range g.collisions.CheckPoint(feet) {
		if hit.Other.ID() == o.ID() {
			continue
		}
		if other, ok := hit.Other.(*world.Object); ok && other.Mode() == world.Ghost {
			continue
		}
		return true
	}
	return false
}

// updateGuard reverses the patrol on a blocking contact and sets the
// walking velocity for this frame.
func (g *Game) updateGuard(gd *guard) {
	body, ok := gd.obj.Body()
	if !ok {
		return
	}

	for _, col := range g.collisions.Previous(gd.obj) {
		if other, ok := col.Other.(*world.Object); ok && other.Valid() && other.Mode() == world.Ghost {
			continue
		}
		if axis, ok := col.Side.Axis(); ok && axis == gd.axis {
			gd.dir = -gd.dir
			break
		}
	}

	speed := g.difficulty.Speed(gd.speed, g.score, int(g.tick))
	body.Velocity[gd.axis] = gd.dir * speed
}

// spotted reports whether the guard has an unobstructed line of sight to
// the player within its sight range.
func (g *Game) spotted(gd *guard) bool {
	if g.player == nil || gd.sight <= 0 {
		return false
	}
	from, ok := eye(gd.obj)
	if !ok {
		return false
	}
	to, ok := eye(g.player)
	if !ok {
		return false
	}
	if to.Sub(from).Len() > g.difficulty.Sight(gd.sight, g.score, int(g.tick)) {
		return false
	}

	for _, hit := range g.collisions.CheckSegment(core.Segment{A: from, B: to}) {
		if hit.Other.ID() == gd.obj.ID() {
			continue
		}
		if other, ok := hit.Other.(*world.Object); ok && other.Mode() == world.Ghost {
			continue
		}
		return hit.Other.ID() == g.player.ID()
	}
	return false
}

// eye is a point near the top of the actor's box.
func eye(o *world.Object) (core.Vec3, bool) {
	box, ok := o.CollisionBox()
	if !ok {
		return core.Vec3{}, false
	}
	p := box.Pos()
	p[2] = box.Min[2] + box.Size()[2]*0.8
	return p, true
}

// sideName lists the distinct sides touched during the previous frame,
// in the ID order of the contacts, for the HUD.
func sideName(cols []collision.Collision) string {
	if len(cols) == 0 {
		return "-"
	}
	var names []string
	for _, c := range cols {
		n := c.Side.String()
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	return strings.Join(names, "+")
}
